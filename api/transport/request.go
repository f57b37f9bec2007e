package transport

import (
	"strings"
	"time"

	"github.com/fastygo/social/domain"
)

type RegisterRequest struct {
	FirstName string `json:"first_name" validate:"required,max=64"`
	LastName  string `json:"last_name" validate:"max=64"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6,max=128"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ProfileRequest struct {
	Company  string        `json:"company" validate:"max=128"`
	Website  string        `json:"website" validate:"max=256"`
	Location string        `json:"location" validate:"max=128"`
	Status   string        `json:"status" validate:"required,max=64"`
	Skills   string        `json:"skills" validate:"required"`
	Bio      string        `json:"bio" validate:"max=2000"`
	Social   SocialRequest `json:"social"`
}

type SocialRequest struct {
	YouTube   string `json:"youtube" validate:"omitempty,url"`
	Twitter   string `json:"twitter" validate:"omitempty,url"`
	Facebook  string `json:"facebook" validate:"omitempty,url"`
	Instagram string `json:"instagram" validate:"omitempty,url"`
	LinkedIn  string `json:"linkedin" validate:"omitempty,url"`
}

// SkillList splits the comma separated skills field.
func (r ProfileRequest) SkillList() []string {
	var skills []string
	for _, s := range strings.Split(r.Skills, ",") {
		if s = strings.TrimSpace(s); s != "" {
			skills = append(skills, s)
		}
	}
	return skills
}

func (r SocialRequest) Domain() domain.Social {
	return domain.Social{
		YouTube:   r.YouTube,
		Twitter:   r.Twitter,
		Facebook:  r.Facebook,
		Instagram: r.Instagram,
		LinkedIn:  r.LinkedIn,
	}
}

type ExperienceRequest struct {
	Title       string     `json:"title" validate:"required,max=128"`
	Company     string     `json:"company" validate:"required,max=128"`
	Location    string     `json:"location" validate:"max=128"`
	From        *time.Time `json:"from" validate:"required"`
	To          *time.Time `json:"to"`
	Current     bool       `json:"current"`
	Description string     `json:"description" validate:"max=2000"`
}

func (r ExperienceRequest) Domain() domain.Experience {
	return domain.Experience{
		Title:       r.Title,
		Company:     r.Company,
		Location:    r.Location,
		From:        r.From,
		To:          r.To,
		Current:     r.Current,
		Description: r.Description,
	}
}

type EducationRequest struct {
	School       string     `json:"school" validate:"required,max=128"`
	Degree       string     `json:"degree" validate:"required,max=128"`
	FieldOfStudy string     `json:"field_of_study" validate:"max=128"`
	From         *time.Time `json:"from" validate:"required"`
	To           *time.Time `json:"to"`
	Current      bool       `json:"current"`
	Description  string     `json:"description" validate:"max=2000"`
}

func (r EducationRequest) Domain() domain.Education {
	return domain.Education{
		School:       r.School,
		Degree:       r.Degree,
		FieldOfStudy: r.FieldOfStudy,
		From:         r.From,
		To:           r.To,
		Current:      r.Current,
		Description:  r.Description,
	}
}

type GroupRequest struct {
	Name        string `json:"name" validate:"required,max=128"`
	Code        string `json:"code" validate:"required,max=64"`
	Description string `json:"description" validate:"max=2000"`
}

type ManagerRequest struct {
	UserID string `json:"user_id" validate:"required"`
	Role   string `json:"role" validate:"omitempty,oneof=admin mod"`
}

type PostRequest struct {
	Text string `json:"text" validate:"required,max=5000"`
}

type CommentRequest struct {
	Text string `json:"text" validate:"required,max=2000"`
}

type MessageRequest struct {
	To             string `json:"to" validate:"required"`
	Text           string `json:"text" validate:"required,max=5000"`
	ConversationID string `json:"conversation_id"`
}
