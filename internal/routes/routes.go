// Package routes wires every endpoint under /api/v1 plus the websocket
// upgrade path.
package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/baobao0303/BE-TIEM-NHA-ZIT/internal/handlers"
	"github.com/baobao0303/BE-TIEM-NHA-ZIT/internal/ws"
)

type Deps struct {
	Auth      *handlers.AuthHandler
	Chat      *handlers.ChatHandler
	Role      *handlers.RoleHandler
	Project   *handlers.ProjectHandler
	Task      *handlers.TaskHandler
	Calendar  *handlers.CalendarHandler
	Location  *handlers.LocationHandler
	Gateway   *ws.Gateway
	Protect   fiber.Handler
	RateLimit fiber.Handler
	Perm      func(permission string) fiber.Handler
}

func Register(app *fiber.App, d Deps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// websocket upgrade; identity binds after connect via the setup event
	app.Use("/socket", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/socket", websocket.New(d.Gateway.Handler()))

	api := app.Group("/api/v1")
	if d.RateLimit != nil {
		api.Use(d.RateLimit)
	}

	auth := api.Group("/auth")
	admin := auth.Group("/admin")
	admin.Post("/register", d.Auth.RegisterAdmin)
	admin.Post("/sign-in", d.Auth.LoginAdmin)
	admin.Post("/logout", d.Auth.Logout)
	admin.Post("/refresh-token", d.Auth.Refresh)

	employee := auth.Group("/employee")
	employee.Post("/register", d.Auth.RegisterEmployee)
	employee.Post("/sign-in", d.Auth.LoginEmployee)
	employee.Post("/logout", d.Auth.Logout)
	employee.Post("/refresh-token", d.Auth.Refresh)
	employee.Get("/google-url", d.Auth.GoogleURL)
	employee.Get("/google/callback", d.Auth.GoogleCallback)
	employee.Post("/exchange-code", d.Auth.ExchangeCode)
	employee.Get("/me", d.Protect, d.Auth.Me)
	employee.Post("/create", d.Protect, d.Perm("employees.manage"), d.Auth.RegisterEmployee)

	chat := api.Group("/chat", d.Protect)
	chat.Get("/", d.Chat.ListConversations)
	chat.Get("/contacts", d.Chat.Contacts)
	chat.Post("/access", d.Chat.AccessChat)
	chat.Post("/group", d.Chat.CreateGroup)
	chat.Post("/message", d.Chat.SendMessage)
	chat.Put("/message/react", d.Chat.React)
	chat.Get("/message/:chatId", d.Chat.ListMessages)
	chat.Put("/:chatId", d.Chat.UpdateEmoji)

	role := api.Group("/roles", d.Protect, d.Perm("roles.manage"))
	role.Post("/", d.Role.Create)
	role.Get("/", d.Role.List)
	role.Get("/:id", d.Role.Get)
	role.Put("/:id", d.Role.Update)
	role.Delete("/:id", d.Role.Delete)

	project := api.Group("/projects", d.Protect)
	project.Post("/", d.Perm("projects.write"), d.Project.Create)
	project.Get("/", d.Project.List)
	project.Get("/stats", d.Project.Stats)
	project.Get("/:id", d.Project.Get)
	project.Put("/:id", d.Perm("projects.write"), d.Project.Update)
	project.Delete("/:id", d.Perm("projects.write"), d.Project.Delete)

	task := api.Group("/tasks", d.Protect)
	task.Post("/", d.Perm("tasks.write"), d.Task.Create)
	task.Get("/", d.Task.List)
	task.Get("/kanban", d.Task.Kanban)
	task.Get("/stats", d.Task.Stats)
	task.Get("/recent", d.Task.Recent)
	task.Put("/:id", d.Perm("tasks.write"), d.Task.Update)
	task.Delete("/:id", d.Perm("tasks.write"), d.Task.Delete)

	calendar := api.Group("/calendar", d.Protect)
	calendar.Post("/", d.Calendar.Create)
	calendar.Get("/", d.Calendar.List)
	calendar.Put("/:id", d.Calendar.Update)
	calendar.Delete("/:id", d.Calendar.Delete)
	calendar.Get("/holidays", d.Location.Holidays)

	location := api.Group("/locations")
	location.Post("/sync", d.Protect, d.Perm("locations.sync"), d.Location.Sync)
	location.Get("/provinces", d.Location.Provinces)
	location.Get("/districts/:provinceCode", d.Location.Districts)
	location.Get("/wards/:districtCode", d.Location.Wards)
}
