package suite

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/empoweryouth/apiprobe/packages/core/runner"
	"github.com/empoweryouth/apiprobe/packages/http"
)

// Scenario names, in plan order.
const (
	RootEndpoint             = "Root Endpoint"
	UserRegistration         = "User Registration"
	DuplicateEmail           = "Duplicate Email Handling"
	AuthTokenValidation      = "Auth Token Validation"
	InvalidTokenHandling     = "Invalid Token Handling"
	CareerAssessment         = "Career Assessment"
	DashboardAPI             = "Dashboard API"
	AIChatbot                = "AI Chatbot"
	JobsAPI                  = "Jobs API"
	CoursesAPI               = "Courses API"
	JobApplication           = "Job Application"
	AuthenticationProtection = "Authentication Protection"
)

// Registration is the body of POST /auth/register.
type Registration struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Password   string `json:"password"`
	Location   string `json:"location"`
	Experience string `json:"experience"`
}

// Assessment is the body of POST /assessment/submit.
type Assessment struct {
	Interests      []string `json:"interests"`
	Skills         []string `json:"skills"`
	Goals          []string `json:"goals"`
	Challenges     []string `json:"challenges"`
	WorkPreference string   `json:"workPreference"`
	CareerStage    string   `json:"careerStage"`
}

// ChatPrompt is one chatbot message and the words a relevant reply contains.
type ChatPrompt struct {
	Message  string
	Keywords []string
}

type Endpoint struct {
	Method string
	Path   string
}

// Fixtures is the test data the scenarios send.
type Fixtures struct {
	User       Registration
	Assessment Assessment
	Chat       []ChatPrompt
	// Protected endpoints must answer 401 without a token.
	Protected []Endpoint
	// Providers are the course providers the catalog is expected to carry.
	Providers []string
}

// UniqueEmail returns a fresh example.com address so every run registers a
// new user.
func UniqueEmail() string {
	id := uuid.New()
	return fmt.Sprintf("priya.sharma.%x@example.com", id[:4])
}

func DefaultFixtures() Fixtures {
	return Fixtures{
		User: Registration{
			Name:       "Priya Sharma",
			Email:      UniqueEmail(),
			Phone:      "+91-9876543210",
			Password:   "SecurePass123!",
			Location:   "Mumbai",
			Experience: "fresher",
		},
		Assessment: Assessment{
			Interests:      []string{"Technology", "Business"},
			Skills:         []string{"Programming", "Communication", "Data Analysis"},
			Goals:          []string{"Get a good job", "Learn new skills"},
			Challenges:     []string{"Lack of experience", "Interview anxiety"},
			WorkPreference: "remote",
			CareerStage:    "entry-level",
		},
		Chat: []ChatPrompt{
			{Message: "How can I improve my resume?", Keywords: []string{"resume", "tips"}},
			{Message: "Tell me about interview preparation", Keywords: []string{"interview", "preparation"}},
			{Message: "What career options do I have?", Keywords: []string{"career", "opportunities"}},
			{Message: "How can I learn new skills?", Keywords: []string{"skill", "development"}},
		},
		Protected: []Endpoint{
			{http.MethodGet, "/auth/me"},
			{http.MethodPost, "/assessment/submit"},
			{http.MethodGet, "/dashboard"},
			{http.MethodPost, "/chat"},
			{http.MethodGet, "/jobs"},
			{http.MethodGet, "/courses"},
			{http.MethodPost, "/apply"},
		},
		Providers: []string{"IBM SkillsBuild", "Coursera", "NSDC"},
	}
}

// Scenarios returns the plan's scenarios in declaration order.
func Scenarios(f Fixtures) []*runner.Scenario {
	registered := []string{UserRegistration}

	return []*runner.Scenario{
		{Name: RootEndpoint, Priority: runner.High, Run: rootEndpoint},
		{Name: UserRegistration, Priority: runner.High, Run: userRegistration(f.User)},
		{Name: DuplicateEmail, Priority: runner.High, Depends: registered, Run: duplicateEmail(f.User)},
		{Name: AuthTokenValidation, Priority: runner.High, Depends: registered, Run: authTokenValidation},
		{Name: InvalidTokenHandling, Priority: runner.High, Run: invalidTokenHandling},
		{Name: CareerAssessment, Priority: runner.High, Depends: registered, Run: careerAssessment(f.Assessment)},
		{Name: DashboardAPI, Priority: runner.High, Depends: []string{UserRegistration, CareerAssessment}, Run: dashboardAPI},
		{Name: AIChatbot, Priority: runner.Medium, Depends: registered, Run: aiChatbot(f.Chat)},
		{Name: JobsAPI, Priority: runner.Medium, Depends: registered, Run: jobsAPI},
		{Name: CoursesAPI, Priority: runner.Medium, Depends: registered, Run: coursesAPI(f.Providers)},
		{Name: JobApplication, Priority: runner.Medium, Depends: []string{UserRegistration, JobsAPI}, Run: jobApplication},
		{Name: AuthenticationProtection, Priority: runner.Medium, Run: authenticationProtection(f.Protected)},
	}
}

// Plan builds the scenario plan for f.
func Plan(f Fixtures) *runner.Plan {
	return runner.MustPlan(Scenarios(f)...)
}

// DefaultPlan is Plan with DefaultFixtures.
func DefaultPlan() *runner.Plan {
	return Plan(DefaultFixtures())
}
