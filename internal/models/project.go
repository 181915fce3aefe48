package models

import "time"

type ProjectStatus string

const (
	ProjectPending    ProjectStatus = "Pending"
	ProjectInprogress ProjectStatus = "Inprogress"
	ProjectCompleted  ProjectStatus = "Completed"
	ProjectDelay      ProjectStatus = "Delay"
)

type File struct {
	Name string `bson:"name" json:"name"`
	URL  string `bson:"url" json:"url"`
	Size string `bson:"size" json:"size"`
}

type Project struct {
	ID          string        `bson:"_id,omitempty" json:"id"`
	Name        string        `bson:"name" json:"name"`
	Description string        `bson:"description" json:"description"`
	Image       string        `bson:"image" json:"image"`
	Status      ProjectStatus `bson:"status" json:"status"`
	Visibility  string        `bson:"visibility" json:"visibility"`
	StartDate   *time.Time    `bson:"start_date,omitempty" json:"startDate,omitempty"`
	DueDate     *time.Time    `bson:"due_date,omitempty" json:"dueDate,omitempty"`
	Members     []string      `bson:"members" json:"members"`
	CreatedBy   string        `bson:"created_by" json:"createdBy"`
	Files       []File        `bson:"files" json:"files"`
	CreatedAt   time.Time     `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time     `bson:"updated_at" json:"updatedAt"`
}
