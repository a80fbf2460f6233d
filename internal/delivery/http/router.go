package http

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"eventplanner/internal/delivery/http/controllers"
)

// Middleware wraps a handler func, e.g. auth or role checks.
type Middleware func(http.HandlerFunc) http.HandlerFunc

// NewRouter initializes the HTTP router with all application routes.
// requireAuth guards every route below /auth; requireAdmin additionally
// guards the user directory listing.
func NewRouter(
	authController *controllers.AuthController,
	userController *controllers.UserController,
	eventController *controllers.EventController,
	invitationController *controllers.InvitationController,
	taskController *controllers.TaskController,
	requireAuth Middleware,
	requireAdmin Middleware,
) *http.ServeMux {
	mux := http.NewServeMux()

	// Auth
	mux.HandleFunc("POST /auth/register", authController.Register)
	mux.HandleFunc("POST /auth/confirm", authController.Confirm)
	mux.HandleFunc("POST /auth/login", authController.Login)

	// Users
	mux.HandleFunc("GET /users/me", requireAuth(userController.GetMe))
	mux.HandleFunc("PATCH /users/me", requireAuth(userController.UpdateMe))
	mux.HandleFunc("GET /users/search", requireAuth(userController.SearchUsers))
	mux.HandleFunc("GET /users/username/{username}", requireAuth(userController.GetUserByUsername))
	mux.HandleFunc("GET /users/{userID}", requireAuth(userController.GetUserByID))
	mux.HandleFunc("GET /users", requireAuth(requireAdmin(userController.ListUsers)))

	// Events
	mux.HandleFunc("POST /events", requireAuth(eventController.CreateEvent))
	mux.HandleFunc("GET /events/me", requireAuth(eventController.ListMyEvents))
	mux.HandleFunc("GET /events/participating", requireAuth(eventController.ListParticipatingEvents))
	mux.HandleFunc("GET /events/{eventID}", requireAuth(eventController.GetEventByID))
	mux.HandleFunc("PATCH /events/{eventID}", requireAuth(eventController.UpdateEvent))
	mux.HandleFunc("DELETE /events/{eventID}", requireAuth(eventController.DeleteEvent))

	// Roster
	mux.HandleFunc("GET /events/{eventID}/participants", requireAuth(eventController.ListParticipants))
	mux.HandleFunc("POST /events/{eventID}/participants", requireAuth(eventController.AddParticipant))
	mux.HandleFunc("DELETE /events/{eventID}/participants/{userID}", requireAuth(eventController.RemoveParticipant))

	// Invitations
	mux.HandleFunc("POST /events/{eventID}/invitations", requireAuth(invitationController.Invite))
	mux.HandleFunc("GET /events/{eventID}/invitations", requireAuth(invitationController.ListEventInvitations))
	mux.HandleFunc("GET /invitations/me", requireAuth(invitationController.ListMyInvitations))
	mux.HandleFunc("POST /invitations/sweep", requireAuth(requireAdmin(invitationController.SweepExpired)))
	mux.HandleFunc("POST /invitations/{invitationID}/respond", requireAuth(invitationController.Respond))
	mux.HandleFunc("DELETE /invitations/{invitationID}", requireAuth(invitationController.Cancel))

	// Tasks
	mux.HandleFunc("POST /events/{eventID}/tasks", requireAuth(taskController.CreateTask))
	mux.HandleFunc("GET /events/{eventID}/tasks", requireAuth(taskController.ListEventTasks))
	mux.HandleFunc("GET /tasks/me", requireAuth(taskController.ListMyTasks))
	mux.HandleFunc("GET /tasks/participating", requireAuth(taskController.ListParticipatingTasks))
	mux.HandleFunc("GET /tasks/validated", requireAuth(taskController.ListValidatedTasks))
	mux.HandleFunc("GET /tasks/{taskID}", requireAuth(taskController.GetTaskByID))
	mux.HandleFunc("PATCH /tasks/{taskID}", requireAuth(taskController.UpdateTask))
	mux.HandleFunc("POST /tasks/{taskID}/validate", requireAuth(taskController.ValidateTask))
	mux.HandleFunc("DELETE /tasks/{taskID}/validate", requireAuth(taskController.UnvalidateTask))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
