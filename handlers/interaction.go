package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/akinalp/mqvi-modbot/models"
	"github.com/akinalp/mqvi-modbot/pkg"
	"github.com/akinalp/mqvi-modbot/pkg/i18n"
	"github.com/akinalp/mqvi-modbot/services"
)

// maxInteractionBody, interactions are a handful of short options.
const maxInteractionBody = 64 << 10

// commandFunc, one command's implementation. A returned rejection
// (pkg.IsRejection) becomes an ephemeral reply; any other error fails the request.
type commandFunc func(ctx context.Context, in *models.Interaction, loc *i18n.Localizer) (*models.Reply, error)

// InteractionHandler, the single entry point for moderation commands.
type InteractionHandler struct {
	configService     services.GuildConfigService
	infractionService services.InfractionService
	promotionService  services.PromotionService

	commands map[string]commandFunc
}

// NewInteractionHandler, creates the handler and its command table.
func NewInteractionHandler(
	configService services.GuildConfigService,
	infractionService services.InfractionService,
	promotionService services.PromotionService,
) *InteractionHandler {
	h := &InteractionHandler{
		configService:     configService,
		infractionService: infractionService,
		promotionService:  promotionService,
	}

	// key: Interaction.Name()
	h.commands = map[string]commandFunc{
		"addrole":            h.setStaffRole,
		"setchannel":         h.setActionChannel,
		"setlogs":            h.setLogChannel,
		"createpromotionreq": h.setPromotableRoles,
		"promote":            h.promote,
		"infraction issue":   h.issueInfraction,
		"infraction revoke":  h.revokeInfraction,
		"infraction view":    h.viewInfraction,
		"infraction list":    h.listInfractions,
		"promotion view":     h.viewPromotion,
		"promotion list":     h.listPromotions,
	}

	return h
}

// Handle, POST /api/servers/{serverId}/interactions
//
// Request:  { "command": "infraction", "subcommand": "issue", "options": {...}, "locale": "tr" }
// Response: { "success": true, "data": { "content": "...", "ephemeral": true } }
func (h *InteractionHandler) Handle(w http.ResponseWriter, r *http.Request) {
	claims, ok := r.Context().Value(ClaimsContextKey).(*models.TokenClaims)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	serverID, _ := r.Context().Value(ServerIDContextKey).(string)
	if serverID == "" {
		serverID = r.PathValue("serverId")
	}

	var in models.Interaction
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxInteractionBody)).Decode(&in); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	in.Command = strings.ToLower(strings.TrimSpace(in.Command))
	in.Subcommand = strings.ToLower(strings.TrimSpace(in.Subcommand))
	in.ActorID = claims.UserID
	in.ServerID = serverID

	lang := r.Header.Get("Accept-Language")
	if in.Locale != "" {
		lang = in.Locale
	}
	loc := i18n.NewLocalizer(i18n.DetectLanguage(lang))

	reply, err := h.execute(r.Context(), &in, loc)
	if err != nil {
		log.Printf("[interaction] %s failed: server=%s actor=%s: %v", in.Name(), serverID, in.ActorID, err)
		pkg.Error(w, pkg.ErrInternal)
		return
	}

	pkg.JSON(w, http.StatusOK, reply)
}

// execute, runs the command and turns rejections into ephemeral replies.
func (h *InteractionHandler) execute(ctx context.Context, in *models.Interaction, loc *i18n.Localizer) (*models.Reply, error) {
	cmd, ok := h.commands[in.Name()]
	if !ok {
		return ephemeral(loc.T("errors.unknownCommand")), nil
	}

	reply, err := cmd(ctx, in, loc)
	if err != nil {
		if pkg.IsRejection(err) {
			return rejectionReply(err, loc), nil
		}
		return nil, err
	}
	return reply, nil
}

// rejectionReply, picks the reply text for a rejected command. Always ephemeral.
func rejectionReply(err error, loc *i18n.Localizer) *models.Reply {
	switch {
	case errors.Is(err, services.ErrOwnerOnly):
		return ephemeral(loc.T("errors.ownerOnly"))
	case errors.Is(err, pkg.ErrForbidden):
		return ephemeral(loc.T("errors.noPermission"))
	case errors.Is(err, services.ErrRoleNotPromotable):
		return ephemeral(loc.T("errors.notPromotable"))
	case errors.Is(err, pkg.ErrNotFound):
		return ephemeral(loc.T("errors.invalidCase"))
	default:
		return ephemeral(loc.TWithParams("errors.invalidInput", map[string]string{
			"detail": rejectionDetail(err),
		}))
	}
}

// rejectionDetail, "bad request: reason is required" → "reason is required".
func rejectionDetail(err error) string {
	msg := err.Error()
	if i := strings.LastIndex(msg, ": "); i >= 0 {
		return msg[i+2:]
	}
	return msg
}

func ephemeral(content string) *models.Reply {
	return &models.Reply{Content: content, Ephemeral: true}
}

func public(content string) *models.Reply {
	return &models.Reply{Content: content}
}

// ─── Configuration (owner only, public confirmations) ───

func (h *InteractionHandler) setStaffRole(ctx context.Context, in *models.Interaction, loc *i18n.Localizer) (*models.Reply, error) {
	role := in.Option("role")
	if err := h.configService.SetStaffRole(ctx, in.ServerID, in.ActorID, role); err != nil {
		return nil, err
	}
	return public(loc.TWithParams("config.staffRoleSet", map[string]string{"role": models.RoleMention(role)})), nil
}

func (h *InteractionHandler) setActionChannel(ctx context.Context, in *models.Interaction, loc *i18n.Localizer) (*models.Reply, error) {
	ch := in.Option("channel")
	if err := h.configService.SetActionChannel(ctx, in.ServerID, in.ActorID, ch); err != nil {
		return nil, err
	}
	return public(loc.TWithParams("config.actionChannelSet", map[string]string{"channel": models.ChannelMention(ch)})), nil
}

func (h *InteractionHandler) setLogChannel(ctx context.Context, in *models.Interaction, loc *i18n.Localizer) (*models.Reply, error) {
	ch := in.Option("channel")
	if err := h.configService.SetLogChannel(ctx, in.ServerID, in.ActorID, ch); err != nil {
		return nil, err
	}
	return public(loc.TWithParams("config.logChannelSet", map[string]string{"channel": models.ChannelMention(ch)})), nil
}

// setPromotableRoles, options role1 (required) .. role6.
func (h *InteractionHandler) setPromotableRoles(ctx context.Context, in *models.Interaction, loc *i18n.Localizer) (*models.Reply, error) {
	roles := make([]string, 0, models.MaxPromotableRoles)
	for i := 1; i <= models.MaxPromotableRoles; i++ {
		roles = append(roles, in.Option("role"+strconv.Itoa(i)))
	}

	if _, err := h.configService.SetPromotableRoles(ctx, in.ServerID, in.ActorID, roles); err != nil {
		return nil, err
	}
	return public(loc.T("config.promotionRolesSaved")), nil
}

// ─── Moderation (staff only, ephemeral replies) ───

func (h *InteractionHandler) promote(ctx context.Context, in *models.Interaction, loc *i18n.Localizer) (*models.Reply, error) {
	if _, err := h.promotionService.Promote(ctx, in.ServerID, in.ActorID, in.Option("user"), in.Option("role")); err != nil {
		return nil, err
	}
	return ephemeral(loc.T("promotion.success")), nil
}

func (h *InteractionHandler) issueInfraction(ctx context.Context, in *models.Interaction, loc *i18n.Localizer) (*models.Reply, error) {
	req := &models.IssueInfractionRequest{
		SubjectUserID: in.Option("user"),
		Reason:        in.Option("reason"),
	}
	if _, err := h.infractionService.Issue(ctx, in.ServerID, in.ActorID, req); err != nil {
		return nil, err
	}
	return ephemeral(loc.T("infraction.issued")), nil
}

func (h *InteractionHandler) revokeInfraction(ctx context.Context, in *models.Interaction, loc *i18n.Localizer) (*models.Reply, error) {
	if _, err := h.infractionService.Revoke(ctx, in.ServerID, in.ActorID, in.Option("caseid")); err != nil {
		return nil, err
	}
	return ephemeral(loc.T("infraction.revoked")), nil
}

// ─── Lookups (staff only, ephemeral) ───

func (h *InteractionHandler) viewInfraction(ctx context.Context, in *models.Interaction, loc *i18n.Localizer) (*models.Reply, error) {
	inf, err := h.infractionService.GetByCaseID(ctx, in.ServerID, in.ActorID, in.Option("caseid"))
	if err != nil {
		return nil, err
	}
	return ephemeral(formatInfraction(inf, loc)), nil
}

func (h *InteractionHandler) listInfractions(ctx context.Context, in *models.Interaction, loc *i18n.Localizer) (*models.Reply, error) {
	user := in.Option("user")
	infractions, err := h.infractionService.ListBySubject(ctx, in.ServerID, in.ActorID, user)
	if err != nil {
		return nil, err
	}
	if len(infractions) == 0 {
		return ephemeral(loc.TWithParams("infraction.none", map[string]string{"user": models.UserMention(user)})), nil
	}

	blocks := make([]string, 0, len(infractions))
	for i := range infractions {
		blocks = append(blocks, formatInfraction(&infractions[i], loc))
	}
	return ephemeral(strings.Join(blocks, "\n\n")), nil
}

func (h *InteractionHandler) viewPromotion(ctx context.Context, in *models.Interaction, loc *i18n.Localizer) (*models.Reply, error) {
	p, err := h.promotionService.GetByCaseID(ctx, in.ServerID, in.ActorID, in.Option("caseid"))
	if err != nil {
		return nil, err
	}
	return ephemeral(formatPromotion(p, loc)), nil
}

func (h *InteractionHandler) listPromotions(ctx context.Context, in *models.Interaction, loc *i18n.Localizer) (*models.Reply, error) {
	user := in.Option("user")
	promotions, err := h.promotionService.ListBySubject(ctx, in.ServerID, in.ActorID, user)
	if err != nil {
		return nil, err
	}
	if len(promotions) == 0 {
		return ephemeral(loc.TWithParams("promotion.none", map[string]string{"user": models.UserMention(user)})), nil
	}

	blocks := make([]string, 0, len(promotions))
	for i := range promotions {
		blocks = append(blocks, formatPromotion(&promotions[i], loc))
	}
	return ephemeral(strings.Join(blocks, "\n\n")), nil
}

// ─── Lookup formatting ───

func formatInfraction(inf *models.Infraction, loc *i18n.Localizer) string {
	lines := []string{
		line(loc.T("lookup.caseId"), inf.CaseID),
		line(loc.T("lookup.user"), models.UserMention(inf.SubjectUserID)),
		line(loc.T("lookup.reason"), inf.Reason),
		line(loc.T("lookup.issuedBy"), models.UserMention(inf.IssuerUserID)),
		line(loc.T("lookup.createdAt"), formatTime(inf.CreatedAt)),
		line(loc.T("lookup.status"), status(inf.Active, inf.RevokedBy, inf.RevokedAt, loc)),
	}
	return strings.Join(lines, "\n")
}

func formatPromotion(p *models.Promotion, loc *i18n.Localizer) string {
	lines := []string{
		line(loc.T("lookup.caseId"), p.CaseID),
		line(loc.T("lookup.user"), models.UserMention(p.SubjectUserID)),
		line(loc.T("lookup.role"), models.RoleMention(p.RoleID)),
		line(loc.T("lookup.promotedBy"), models.UserMention(p.PromoterUserID)),
		line(loc.T("lookup.createdAt"), formatTime(p.CreatedAt)),
		line(loc.T("lookup.status"), status(p.Active, p.RevokedBy, p.RevokedAt, loc)),
	}
	return strings.Join(lines, "\n")
}

func status(active bool, revokedBy *string, revokedAt *time.Time, loc *i18n.Localizer) string {
	if active {
		return loc.T("lookup.active")
	}
	by, at := "?", "?"
	if revokedBy != nil {
		by = models.UserMention(*revokedBy)
	}
	if revokedAt != nil {
		at = formatTime(*revokedAt)
	}
	return loc.TWithParams("lookup.revoked", map[string]string{"user": by, "time": at})
}

func line(label, value string) string {
	return "**" + label + ":** " + value
}

func formatTime(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04 UTC")
}
