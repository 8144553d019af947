package subjects

import (
	"strings"

	"github.com/Paul200287/GradeTracker/internal/utils"
)

// Subject is a course record owned by a backend user.
type Subject struct {
	ID          int             `json:"id"`
	UserID      int             `json:"user_id"`
	Name        string          `json:"name"`
	Description *string         `json:"description"`
	Semester    *string         `json:"semester"`
	TeacherName *string         `json:"teacher_name"`
	CreatedAt   utils.Timestamp `json:"created_at"`
	UpdatedAt   utils.Timestamp `json:"updated_at"`
}

// Input is what a user fills in when creating or editing a subject.
type Input struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description"`
	Semester    string `json:"semester" validate:"max=20"`
	TeacherName string `json:"teacher_name" validate:"max=100"`
}

// Normalize trims every field.
func (in Input) Normalize() Input {
	return Input{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Semester:    strings.TrimSpace(in.Semester),
		TeacherName: strings.TrimSpace(in.TeacherName),
	}
}

// FromSubject prefills an edit form.
func FromSubject(s Subject) Input {
	return Input{
		Name:        s.Name,
		Description: utils.Value(s.Description),
		Semester:    utils.Value(s.Semester),
		TeacherName: utils.Value(s.TeacherName),
	}
}

type createPayload struct {
	UserID int `json:"user_id"`
	updatePayload
}

// updatePayload sends blank optional fields as null.
type updatePayload struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Semester    *string `json:"semester"`
	TeacherName *string `json:"teacher_name"`
}

func newUpdatePayload(in Input) updatePayload {
	return updatePayload{
		Name:        in.Name,
		Description: utils.OptionalString(in.Description),
		Semester:    utils.OptionalString(in.Semester),
		TeacherName: utils.OptionalString(in.TeacherName),
	}
}

// Filter returns the subjects whose name, description, semester or teacher
// contains term, ignoring case. An empty term keeps everything.
func Filter(list []Subject, term string) []Subject {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return list
	}

	matches := make([]Subject, 0, len(list))
	for _, s := range list {
		if s.matches(term) {
			matches = append(matches, s)
		}
	}
	return matches
}

func (s Subject) matches(term string) bool {
	fields := []string{
		s.Name,
		utils.Value(s.Description),
		utils.Value(s.Semester),
		utils.Value(s.TeacherName),
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}
