package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names.
const (
	collConversations = "conversations"
	collMessages      = "messages"
	collAdmins        = "admins"
	collEmployees     = "employees"
	collRoles         = "roles"
	collProjects      = "projects"
	collTasks         = "tasks"
	collCalendar      = "calendar_events"
	collProvinces     = "provinces"
	collDistricts     = "districts"
	collWards         = "wards"
)

// Connect dials MongoDB and verifies the connection.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}
	return client, nil
}
