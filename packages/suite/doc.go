// Package suite is the built-in EmpowerYouth scenario plan.
//
// The plan registers a fresh user, walks the authenticated feature
// endpoints with that user's token, and finally checks that every protected
// endpoint rejects anonymous calls. Scenarios read and write a shared
// session.State, so the plan encodes those reads as dependencies:
//
//	Root Endpoint
//	User Registration
//	├── Duplicate Email Handling
//	├── Auth Token Validation
//	├── Career Assessment ── Dashboard API
//	├── AI Chatbot
//	├── Jobs API ── Job Application
//	└── Courses API
//	Invalid Token Handling
//	Authentication Protection
//
// Use Plan with custom Fixtures to run the same scenarios with other test
// data.
package suite
