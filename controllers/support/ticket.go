package support

import (
	"encoding/json"
	"time"

	"lms/database"
	"lms/middleware"
	"lms/models"

	"github.com/gofiber/fiber/v2"
)

// ThreadMessage is one entry in a ticket's conversation thread
type ThreadMessage struct {
	Sender string    `json:"sender"` // USER or ADMIN
	Text   string    `json:"text"`
	Time   time.Time `json:"time"`
}

// CreateTicket opens a support ticket with the first message in the thread
func CreateTicket(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	reqData, ok := c.Locals("validatedTicket").(*struct {
		Title    string `json:"title" validate:"required,min=3,max=200"`
		Subject  string `json:"subject" validate:"required,min=3,max=200"`
		Message  string `json:"message" validate:"required,min=5"`
		Priority string `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH"`
		Category string `json:"category" validate:"omitempty,oneof=GENERAL COURSE CERTIFICATE PAYMENT TECHNICAL"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	thread := []ThreadMessage{{
		Sender: "USER",
		Text:   reqData.Message,
		Time:   time.Now(),
	}}
	threadJSON, err := json.Marshal(thread)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create ticket!", nil)
	}

	ticket := models.SupportTicket{
		UserID:  userID,
		Title:   reqData.Title,
		Subject: reqData.Subject,
		Message: threadJSON,
		Status:  "OPEN",
	}
	if reqData.Priority != "" {
		ticket.Priority = reqData.Priority
	}
	if reqData.Category != "" {
		ticket.Category = reqData.Category
	}

	if err := database.Database.Db.Create(&ticket).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create ticket!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Ticket created successfully!", ticket)
}

// GetUserTickets lists the current user's tickets
func GetUserTickets(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var tickets []models.SupportTicket
	if err := database.Database.Db.Where("user_id = ? AND is_deleted = ?", userID, false).
		Order("created_at desc").Find(&tickets).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch tickets!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Tickets fetched successfully!", tickets)
}

// ReplyToTicket appends a message to a ticket's thread. Users reply to their
// own tickets; admins reply to any ticket, which marks it ANSWERED.
func ReplyToTicket(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	role, _ := c.Locals("role").(string)
	isAdmin := role == "ADMIN" || role == "SUPER-ADMIN"

	ticketID := c.Locals("ticketID").(int)

	reqData, ok := c.Locals("validatedTicketReply").(*struct {
		Message string `json:"message" validate:"required,min=1"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	query := database.Database.Db.Where("id = ? AND is_deleted = ?", ticketID, false)
	if !isAdmin {
		query = query.Where("user_id = ?", userID)
	}

	var ticket models.SupportTicket
	if err := query.First(&ticket).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Ticket not found!", nil)
	}

	if ticket.Status == "CLOSED" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Cannot reply to a closed ticket!", nil)
	}

	var thread []ThreadMessage
	if len(ticket.Message) > 0 {
		if err := json.Unmarshal(ticket.Message, &thread); err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to read ticket thread!", nil)
		}
	}

	sender := "USER"
	if isAdmin {
		sender = "ADMIN"
	}
	thread = append(thread, ThreadMessage{
		Sender: sender,
		Text:   reqData.Message,
		Time:   time.Now(),
	})

	threadJSON, err := json.Marshal(thread)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update ticket!", nil)
	}

	ticket.Message = threadJSON
	if isAdmin {
		ticket.Status = "ANSWERED"
	} else {
		ticket.Status = "OPEN"
	}

	if err := database.Database.Db.Save(&ticket).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update ticket!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Reply added successfully!", ticket)
}

// CloseTicket closes a ticket. The owner or an admin can close it.
func CloseTicket(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	role, _ := c.Locals("role").(string)
	isAdmin := role == "ADMIN" || role == "SUPER-ADMIN"

	ticketID := c.Locals("ticketID").(int)

	query := database.Database.Db.Where("id = ? AND is_deleted = ?", ticketID, false)
	if !isAdmin {
		query = query.Where("user_id = ?", userID)
	}

	var ticket models.SupportTicket
	if err := query.First(&ticket).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Ticket not found!", nil)
	}

	ticket.Status = "CLOSED"
	if err := database.Database.Db.Save(&ticket).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to close ticket!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Ticket closed successfully!", nil)
}

// GetAllTickets lists every ticket for admins, filterable by status
func GetAllTickets(c *fiber.Ctx) error {
	status := c.Query("status")

	db := database.Database.Db.Where("is_deleted = ?", false)
	if status != "" {
		db = db.Where("status = ?", status)
	}

	var tickets []models.SupportTicket
	if err := db.Order("created_at desc").Limit(200).Find(&tickets).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch tickets!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Tickets fetched successfully!", tickets)
}
