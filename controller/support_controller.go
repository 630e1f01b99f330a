package controller

import (
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"gamevault-backend/model"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type SupportController struct {
	DB *gorm.DB
}

func generateTicketNumber() string {
	return fmt.Sprintf("TKT%s%d", time.Now().Format("20060102"), 1000+rand.Intn(9000))
}

func (sc *SupportController) CreateTicket(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.Status(401).JSON(fiber.Map{"error": "Not authenticated"})
	}

	var req struct {
		Subject     string `json:"subject"`
		Category    string `json:"category"`
		Priority    string `json:"priority"`
		Description string `json:"description"`
		OrderID     *uint  `json:"order_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid payload"})
	}

	switch "" {
	case req.Subject:
		return c.Status(400).JSON(fiber.Map{"error": "Missing required field: subject"})
	case req.Category:
		return c.Status(400).JSON(fiber.Map{"error": "Missing required field: category"})
	case req.Description:
		return c.Status(400).JSON(fiber.Map{"error": "Missing required field: description"})
	}

	category := model.TicketCategory(req.Category)
	if !category.Valid() {
		return c.Status(400).JSON(fiber.Map{"error": "invalid category"})
	}
	priority := model.TicketPriority(req.Priority)
	if req.Priority == "" {
		priority = model.PriorityMedium
	} else if !priority.Valid() {
		return c.Status(400).JSON(fiber.Map{"error": "invalid priority"})
	}

	// A ticket may reference one of the reporter's orders.
	if req.OrderID != nil {
		var order model.Order
		if err := sc.DB.First(&order, *req.OrderID).Error; err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid order_id"})
		}
		if order.UserID != userID && !isAdmin(c) {
			return c.Status(403).JSON(fiber.Map{"error": "order belongs to another user"})
		}
	}

	username, _ := c.Locals("username").(string)

	ticket := model.SupportTicket{
		UserID:       userID,
		TicketNumber: generateTicketNumber(),
		Subject:      req.Subject,
		Category:     category,
		Priority:     priority,
		Status:       model.TicketOpen,
		Description:  req.Description,
		OrderID:      req.OrderID,
	}

	err := sc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&ticket).Error; err != nil {
			return err
		}
		opening := model.SupportMessage{
			TicketID:   ticket.ID,
			SenderType: "user",
			SenderName: username,
			Message:    req.Description,
		}
		return tx.Create(&opening).Error
	})
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to create ticket"})
	}

	return c.Status(201).JSON(ticket)
}

func (sc *SupportController) ListTickets(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.Status(401).JSON(fiber.Map{"error": "Not authenticated"})
	}

	tickets := []model.SupportTicket{}
	q := sc.DB.Order("created_at DESC, id DESC")
	if !isAdmin(c) {
		q = q.Where("user_id = ?", userID)
	}
	if err := q.Find(&tickets).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch tickets"})
	}

	return c.JSON(tickets)
}

func (sc *SupportController) GetTicket(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid id"})
	}
	userID, ok := currentUserID(c)
	if !ok {
		return c.Status(401).JSON(fiber.Map{"error": "Not authenticated"})
	}

	var ticket model.SupportTicket
	err = sc.DB.Preload("Messages", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC, id ASC")
	}).First(&ticket, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "ticket not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "query error"})
	}

	if ticket.UserID != userID && !isAdmin(c) {
		return c.Status(403).JSON(fiber.Map{"error": "forbidden"})
	}

	return c.JSON(ticket)
}

func (sc *SupportController) AddMessage(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid id"})
	}
	userID, ok := currentUserID(c)
	if !ok {
		return c.Status(401).JSON(fiber.Map{"error": "Not authenticated"})
	}

	var req struct {
		Message string `json:"message"`
	}
	if err := c.BodyParser(&req); err != nil || req.Message == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Missing required field: message"})
	}

	var ticket model.SupportTicket
	if err := sc.DB.First(&ticket, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "ticket not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "query error"})
	}

	admin := isAdmin(c)
	if ticket.UserID != userID && !admin {
		return c.Status(403).JSON(fiber.Map{"error": "forbidden"})
	}

	senderType := "user"
	if admin && ticket.UserID != userID {
		senderType = "admin"
	}
	username, _ := c.Locals("username").(string)

	message := model.SupportMessage{
		TicketID:   ticket.ID,
		SenderType: senderType,
		SenderName: username,
		Message:    req.Message,
	}

	err = sc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&message).Error; err != nil {
			return err
		}
		return tx.Model(&ticket).Update("updated_at", time.Now()).Error
	})
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to add message"})
	}

	return c.Status(201).JSON(message)
}

// UpdateStatus moves a ticket through open -> in_progress -> resolved/closed.
// Admin only, wired in routes.
func (sc *SupportController) UpdateStatus(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid id"})
	}

	var req struct {
		Status     string  `json:"status"`
		AssignedTo *string `json:"assigned_to"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid payload"})
	}

	status := model.TicketStatus(req.Status)
	if !status.Valid() {
		return c.Status(400).JSON(fiber.Map{"error": "invalid status"})
	}

	var ticket model.SupportTicket
	if err := sc.DB.First(&ticket, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "ticket not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "query error"})
	}

	ticket.Status = status
	if req.AssignedTo != nil {
		ticket.AssignedTo = req.AssignedTo
	}
	if status == model.TicketResolved && ticket.ResolvedAt == nil {
		now := time.Now()
		ticket.ResolvedAt = &now
	}

	if err := sc.DB.Save(&ticket).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to update ticket"})
	}

	return c.JSON(ticket)
}
