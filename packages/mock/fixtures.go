package mock

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

type job struct {
	Title       string
	Company     string
	Location    string
	Salary      string
	Remote      bool
	Skills      []string
	Description string
	Match       int
}

type course struct {
	Title       string
	Provider    string
	Description string
	Duration    string
	Price       string
	Rating      float64
	Skills      []string
	Level       string
}

var jobFixtures = []job{
	{"Frontend Developer", "TechStart India", "Mumbai", "3-6 LPA", true,
		[]string{"JavaScript", "React", "CSS", "HTML"},
		"Build modern web applications using React and JavaScript", 85},
	{"Data Analyst", "Analytics Pro", "Bangalore", "4-7 LPA", false,
		[]string{"Python", "SQL", "Excel", "Data Analysis"},
		"Analyze data and create insights for business decisions", 78},
	{"Digital Marketing Executive", "MarketGrow", "Delhi", "2.5-4 LPA", true,
		[]string{"Digital Marketing", "SEO", "Content Writing", "Social Media"},
		"Drive digital marketing campaigns and grow online presence", 72},
	{"Sales Associate", "SalesPro India", "Chennai", "3-5 LPA", false,
		[]string{"Sales", "Communication", "Customer Service", "CRM"},
		"Drive sales growth and build customer relationships", 68},
	{"Customer Support Specialist", "SupportPlus", "Pune", "2-4 LPA", true,
		[]string{"Communication", "Problem Solving", "English", "Customer Service"},
		"Provide excellent customer support via chat and email", 75},
	{"Graphic Designer", "Creative Studio", "Hyderabad", "2.5-5 LPA", true,
		[]string{"Photoshop", "Illustrator", "Design", "Creativity"},
		"Create stunning visual designs for digital and print media", 70},
}

var courseFixtures = []course{
	{"Full Stack Web Development", "IBM SkillsBuild",
		"Learn to build complete web applications with modern technologies", "12 weeks", "Free", 4.5,
		[]string{"JavaScript", "React", "Node.js", "MongoDB"}, "Beginner"},
	{"Data Science Fundamentals", "IBM SkillsBuild",
		"Master the basics of data science and analytics", "8 weeks", "Free", 4.6,
		[]string{"Python", "Statistics", "Machine Learning", "Data Visualization"}, "Beginner"},
	{"Digital Marketing Certification", "NSDC",
		"Comprehensive digital marketing skills for career growth", "6 weeks", "2999", 4.3,
		[]string{"SEO", "Google Ads", "Social Media Marketing", "Analytics"}, "Intermediate"},
	{"Business Communication", "Coursera",
		"Improve professional communication skills", "4 weeks", "1999", 4.4,
		[]string{"Communication", "Presentation", "Email Writing", "English"}, "Beginner"},
	{"Python Programming", "IBM SkillsBuild",
		"Learn Python programming from basics to advanced", "10 weeks", "Free", 4.7,
		[]string{"Python", "Programming", "Data Structures", "Algorithms"}, "Beginner"},
	{"AI and Machine Learning", "Coursera",
		"Introduction to AI and ML concepts and applications", "16 weeks", "4999", 4.8,
		[]string{"Machine Learning", "AI", "Python", "TensorFlow"}, "Advanced"},
}

func stringArray(items []string) ldvalue.Value {
	b := ldvalue.ArrayBuild()
	for _, s := range items {
		b.Add(ldvalue.String(s))
	}
	return b.Build()
}

// jobListing renders the job fixtures, best match first. Ids are fresh on
// every call.
func jobListing(now time.Time) ldvalue.Value {
	sorted := append([]job(nil), jobFixtures...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Match > sorted[j].Match })

	b := ldvalue.ArrayBuild()
	for _, j := range sorted {
		b.Add(ldvalue.ObjectBuild().
			Set("id", ldvalue.String(uuid.NewString())).
			Set("title", ldvalue.String(j.Title)).
			Set("company", ldvalue.String(j.Company)).
			Set("location", ldvalue.String(j.Location)).
			Set("salary", ldvalue.String(j.Salary)).
			Set("type", ldvalue.String("Full-time")).
			Set("remote", ldvalue.Bool(j.Remote)).
			Set("skills", stringArray(j.Skills)).
			Set("description", ldvalue.String(j.Description)).
			Set("matchPercentage", ldvalue.Int(j.Match)).
			Set("postedAt", ldvalue.String(now.UTC().Format(time.RFC3339))).
			Build())
	}
	return b.Build()
}

func courseValue(c course) ldvalue.Value {
	return ldvalue.ObjectBuild().
		Set("id", ldvalue.String(uuid.NewString())).
		Set("title", ldvalue.String(c.Title)).
		Set("provider", ldvalue.String(c.Provider)).
		Set("description", ldvalue.String(c.Description)).
		Set("duration", ldvalue.String(c.Duration)).
		Set("price", ldvalue.String(c.Price)).
		Set("rating", ldvalue.Float64(c.Rating)).
		Set("skills", stringArray(c.Skills)).
		Set("level", ldvalue.String(c.Level)).
		Build()
}

func courseListing() ldvalue.Value {
	b := ldvalue.ArrayBuild()
	for _, c := range courseFixtures {
		b.Add(courseValue(c))
	}
	return b.Build()
}

// recommendedCourses keeps the courses that teach at least one skill the
// user does not have yet, at most six.
func recommendedCourses(skills []skill) ldvalue.Value {
	have := make(map[string]bool, len(skills))
	for _, s := range skills {
		have[strings.ToLower(s.Name)] = true
	}

	b := ldvalue.ArrayBuild()
	n := 0
	for _, c := range courseFixtures {
		if n == 6 {
			break
		}
		for _, s := range c.Skills {
			if !have[strings.ToLower(s)] {
				b.Add(courseValue(c))
				n++
				break
			}
		}
	}
	return b.Build()
}

var skillRules = []struct {
	field string
	match string
	adds  []skill
}{
	{"skills", "Programming", []skill{{"JavaScript", 3}, {"Python", 2}}},
	{"skills", "Communication", []skill{{"Communication", 4}, {"English", 4}}},
	{"skills", "Data Analysis", []skill{{"Excel", 3}, {"SQL", 2}}},
	{"skills", "Design", []skill{{"Photoshop", 3}, {"Design", 3}}},
	{"skills", "Sales", []skill{{"Sales", 3}, {"Customer Service", 3}}},
	{"interests", "Technology", []skill{{"Problem Solving", 3}}},
	{"interests", "Business", []skill{{"Leadership", 2}}},
}

var defaultSkills = []skill{{"Communication", 3}, {"Problem Solving", 3}, {"Teamwork", 3}}

// skillVector scores an assessment. An assessment matching no rule gets a
// generic vector, so the result is never empty.
func skillVector(assessment ldvalue.Value) []skill {
	var out []skill
	for _, rule := range skillRules {
		if containsString(assessment.GetByKey(rule.field), rule.match) {
			out = append(out, rule.adds...)
		}
	}
	if len(out) == 0 {
		return append([]skill(nil), defaultSkills...)
	}
	return out
}

func containsString(arr ldvalue.Value, want string) bool {
	if arr.Type() != ldvalue.ArrayType {
		return false
	}
	for i := 0; i < arr.Count(); i++ {
		if arr.GetByIndex(i).StringValue() == want {
			return true
		}
	}
	return false
}

func skillsValue(skills []skill) ldvalue.Value {
	b := ldvalue.ArrayBuild()
	for _, s := range skills {
		b.Add(ldvalue.ObjectBuild().
			Set("name", ldvalue.String(s.Name)).
			Set("level", ldvalue.Int(s.Level)).
			Build())
	}
	return b.Build()
}

var chatReplies = []struct {
	keywords []string
	reply    string
}{
	{[]string{"resume", "cv"}, "Here are some resume tips: 1) Keep it concise and relevant 2) Highlight achievements with numbers 3) Use action verbs 4) Tailor it for each job. Would you like specific advice for any section?"},
	{[]string{"interview"}, "Interview preparation tips: 1) Research the company thoroughly 2) Practice common questions 3) Prepare STAR method examples 4) Ask thoughtful questions. What type of interview are you preparing for?"},
	{[]string{"career", "job"}, "I can help with career guidance! Based on your profile, I see opportunities in technology and business. What specific career questions do you have?"},
	{[]string{"skill", "learn"}, "Skill development is crucial for career growth. Based on current market trends, I recommend focusing on: 1) Digital skills (programming, data analysis) 2) Soft skills (communication, leadership) 3) Industry-specific skills. What area interests you most?"},
	{[]string{"salary", "pay"}, "Salary expectations should be based on: 1) Industry standards 2) Your experience level 3) Location 4) Company size. For fresher roles in India, expect 2-6 LPA depending on skills and industry. Would you like specific salary insights?"},
}

const genericChatReply = "I'm here to help with your career journey! You can ask me about job search strategies, resume writing, interview preparation, skill development, or career planning. What would you like to know?"

func chatReply(message string) string {
	lower := strings.ToLower(message)
	for _, r := range chatReplies {
		for _, k := range r.keywords {
			if strings.Contains(lower, k) {
				return r.reply
			}
		}
	}
	return genericChatReply
}
