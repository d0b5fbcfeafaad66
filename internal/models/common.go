package models

const (
	// SubjectContextKey is where the bearer middleware stores the
	// authenticated subject (the user's email).
	SubjectContextKey = "subject"
)
