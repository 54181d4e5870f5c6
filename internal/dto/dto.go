package dto

import (
	"time"

	"tutormatch/backend/internal/models"
)

type LoginRequest struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      models.User `json:"user"`
}

type RegisterParentRequest struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type RegisterStudentRequest struct {
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Password   string `json:"password"`
	School     string `json:"school"`
	Major      string `json:"major"`
	EnrollYear int    `json:"enroll_year"`
}

// OfferInput is the body of create/update for a tutoring offer.
type OfferInput struct {
	Subjects      TagList `json:"subjects"`
	Salary        int     `json:"salary"`
	SalaryNote    string  `json:"salary_note"`
	Intro         string  `json:"intro"`
	AvailableDays TagList `json:"available_days"`
	StartTime     string  `json:"start_time"`
	EndTime       string  `json:"end_time"`
}

// RequestInput is the body of create/update for a tutoring request.
type RequestInput struct {
	ChildName string  `json:"child_name"`
	Phone     string  `json:"phone"`
	District  string  `json:"district"`
	Address   string  `json:"address"`
	Salary    int     `json:"salary"`
	Subjects  TagList `json:"subjects"`
	Days      TagList `json:"days"`
	Note      string  `json:"note"`
}

// FilterQuery is bound from the query string of the listing filter.
type FilterQuery struct {
	Type      string `form:"type"`
	Subjects  string `form:"subjects"`
	District  string `form:"district"`
	MinSalary int    `form:"minSalary"`
}

type ProposeMatchRequest struct {
	ToUser uint `json:"to_user"`
}

type CheckMatchResponse struct {
	Matched bool `json:"matched"`
}

type SendMessageRequest struct {
	ReceiverID uint   `json:"receiver_id"`
	Content    string `json:"content"`
}
