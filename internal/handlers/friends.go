package handlers

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Kerhoff/ChoreboT/internal/models"
	"github.com/Kerhoff/ChoreboT/internal/service"
	"github.com/Kerhoff/ChoreboT/internal/telegram"
)

// FriendsHandler handles /friends.
type FriendsHandler struct {
	svc *service.Service
}

// NewFriendsHandler creates a new FriendsHandler.
func NewFriendsHandler(svc *service.Service) *FriendsHandler {
	return &FriendsHandler{svc: svc}
}

func (h *FriendsHandler) Handle(ctx context.Context, bot telegram.Sender, message *tgbotapi.Message, user *models.User, _ []string) error {
	friends, err := h.svc.ListConfirmedFriends(ctx, user.ID)
	if err != nil {
		return err
	}
	if len(friends) == 0 {
		return send(bot, message.Chat.ID, "🤝 No confirmed friends yet.")
	}

	var b strings.Builder
	b.WriteString("🤝 *Your friends*\n")
	for _, f := range friends {
		fmt.Fprintf(&b, "\n• *#%d* %s", f.ID, escape(displayName(f)))
	}
	return send(bot, message.Chat.ID, b.String())
}

// InvitesHandler handles /invites.
type InvitesHandler struct {
	svc *service.Service
}

// NewInvitesHandler creates a new InvitesHandler.
func NewInvitesHandler(svc *service.Service) *InvitesHandler {
	return &InvitesHandler{svc: svc}
}

func (h *InvitesHandler) Handle(ctx context.Context, bot telegram.Sender, message *tgbotapi.Message, user *models.User, _ []string) error {
	invites, err := h.svc.ListJobInvites(ctx, user.ID)
	if err != nil {
		return err
	}
	if len(invites) == 0 {
		return send(bot, message.Chat.ID, "📭 No pending job invites.")
	}

	var b strings.Builder
	b.WriteString("📨 *Jobs shared with you*\n")
	for _, inv := range invites {
		title := ""
		if inv.Job != nil {
			title = inv.Job.Title
		}
		fmt.Fprintf(&b, "\n• *#%d* %s from %s", inv.ID, escape(title), escape(displayName(inv.Inviter)))
	}
	b.WriteString("\n\nSend /join <invite id> to accept.")
	return send(bot, message.Chat.ID, b.String())
}

// JoinHandler handles /join <invite id>.
type JoinHandler struct {
	svc *service.Service
}

// NewJoinHandler creates a new JoinHandler.
func NewJoinHandler(svc *service.Service) *JoinHandler {
	return &JoinHandler{svc: svc}
}

func (h *JoinHandler) Handle(ctx context.Context, bot telegram.Sender, message *tgbotapi.Message, user *models.User, args []string) error {
	id, err := parseID(args, "/join <invite id>")
	if err != nil {
		return err
	}

	job, err := h.svc.AcceptJobInvite(ctx, id, user.ID)
	if err != nil {
		return err
	}
	return send(bot, message.Chat.ID,
		fmt.Sprintf("🎉 You joined *%s* (#%d) with %d members.", escape(job.Title), job.ID, len(job.Members)))
}
