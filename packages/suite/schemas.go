package suite

import "github.com/empoweryouth/apiprobe/packages/assertions"

type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type registerResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type Skill struct {
	Name  string `json:"name"`
	Level int    `json:"level"`
}

type assessmentResponse struct {
	Success     bool    `json:"success"`
	SkillVector []Skill `json:"skillVector"`
}

type Job struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Company         string   `json:"company"`
	Location        string   `json:"location"`
	Salary          string   `json:"salary"`
	Skills          []string `json:"skills"`
	MatchPercentage float64  `json:"matchPercentage"`
}

type Course struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Provider    string   `json:"provider"`
	Description string   `json:"description"`
	Duration    string   `json:"duration"`
	Skills      []string `json:"skills"`
}

type Progress struct {
	ProfileCompletion float64 `json:"profileCompletion"`
	CoursesCompleted  float64 `json:"coursesCompleted"`
}

type dashboardResponse struct {
	Skills             []Skill  `json:"skills"`
	JobMatches         []Job    `json:"jobMatches"`
	Jobs               []Job    `json:"jobs"`
	Courses            []Course `json:"courses"`
	RecommendedCourses []Course `json:"recommendedCourses"`
	Progress           Progress `json:"progress"`
}

type chatRequest struct {
	Message   string `json:"message"`
	Language  string `json:"language"`
	SessionID string `json:"sessionId,omitempty"`
}

type chatResponse struct {
	Response  string `json:"response"`
	SessionID string `json:"sessionId"`
}

type jobsResponse struct {
	Jobs []Job `json:"jobs"`
}

type coursesResponse struct {
	Courses []Course `json:"courses"`
}

type applyResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

var (
	rootSchema = assertions.MustCompileSchema("root", `{
  "type": "object",
  "required": ["message"],
  "properties": {"message": {"type": "string"}}
}`)

	registerSchema = assertions.MustCompileSchema("register", `{
  "type": "object",
  "required": ["user", "token"],
  "properties": {
    "token": {"type": "string", "minLength": 1},
    "user": {
      "type": "object",
      "required": ["id", "name", "email", "phone"],
      "properties": {"id": {"type": "string", "minLength": 1}}
    }
  }
}`)

	errorSchema = assertions.MustCompileSchema("error", `{
  "type": "object",
  "required": ["error"],
  "properties": {"error": {"type": "string"}}
}`)

	userSchema = assertions.MustCompileSchema("user", `{
  "type": "object",
  "required": ["id", "name"],
  "properties": {"id": {"type": "string"}}
}`)

	assessmentSchema = assertions.MustCompileSchema("assessment", `{
  "type": "object",
  "required": ["success", "skillVector"],
  "properties": {
    "success": {"type": "boolean"},
    "skillVector": {"type": "array"}
  }
}`)

	chatSchema = assertions.MustCompileSchema("chat", `{
  "type": "object",
  "required": ["response", "sessionId"],
  "properties": {
    "response": {"type": "string"},
    "sessionId": {"type": "string"}
  }
}`)

	jobsSchema = assertions.MustCompileSchema("jobs", `{
  "type": "object",
  "required": ["jobs"],
  "properties": {
    "jobs": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["id", "title", "company", "location", "salary", "skills"]
      }
    }
  }
}`)

	coursesSchema = assertions.MustCompileSchema("courses", `{
  "type": "object",
  "required": ["courses"],
  "properties": {
    "courses": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["id", "title", "provider", "description", "duration", "skills"]
      }
    }
  }
}`)

	applySchema = assertions.MustCompileSchema("apply", `{
  "type": "object",
  "required": ["success"],
  "properties": {"success": {"type": "boolean"}}
}`)
)
