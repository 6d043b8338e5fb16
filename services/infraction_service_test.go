package services

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/akinalp/mqvi-modbot/models"
	"github.com/akinalp/mqvi-modbot/pkg"
	"github.com/akinalp/mqvi-modbot/ws"
)

func issue(t *testing.T, env *testEnv, subject, reason string) *models.Infraction {
	t.Helper()
	inf, err := env.infraction.Issue(context.Background(), testServer, testStaff,
		&models.IssueInfractionRequest{SubjectUserID: subject, Reason: reason})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	return inf
}

func TestIssue_CreatesRecordAndNotifiesBothChannels(t *testing.T) {
	env := newTestEnv(t, sequenceIDs("0a1b2c3d4e"))
	env.configure(t)

	inf := issue(t, env, testMember, "  spam  ")

	if inf.CaseID != "0a1b2c3d4e" || !inf.Active || inf.Reason != "spam" || inf.IssuerUserID != testStaff {
		t.Fatalf("unexpected infraction: %+v", inf)
	}

	stored, err := env.infractions.GetByCaseID(context.Background(), testServer, inf.CaseID)
	if err != nil {
		t.Fatalf("stored record: %v", err)
	}
	if stored.ID != inf.ID {
		t.Errorf("stored id = %s, want %s", stored.ID, inf.ID)
	}

	want := "**🚨 Infraction Issued**\n**User:** <@member>\n**Reason:** spam\n**Case ID:** 0a1b2c3d4e"
	for _, ch := range []string{"c-action", "c-log"} {
		got := env.platform.sentTo(ch)
		if len(got) != 1 || got[0] != want {
			t.Errorf("%s messages = %q, want [%q]", ch, got, want)
		}
	}

	if ops := env.hub.ops(); !reflect.DeepEqual(ops, []string{ws.OpInfractionCreate}) {
		t.Errorf("feed ops = %v", ops)
	}
	if env.mailer.count() != 1 {
		t.Errorf("audit mails = %d, want 1", env.mailer.count())
	}
}

func TestIssue_Rejections(t *testing.T) {
	env := newTestEnv(t, nil)
	env.configure(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		actor string
		req   models.IssueInfractionRequest
		want  error
	}{
		{"not staff", testMember, models.IssueInfractionRequest{SubjectUserID: "u1", Reason: "x"}, ErrNotStaff},
		{"owner without role", testOwner, models.IssueInfractionRequest{SubjectUserID: "u1", Reason: "x"}, ErrNotStaff},
		{"blank reason", testStaff, models.IssueInfractionRequest{SubjectUserID: "u1", Reason: "   "}, pkg.ErrBadRequest},
		{"long reason", testStaff, models.IssueInfractionRequest{SubjectUserID: "u1", Reason: strings.Repeat("a", models.MaxReasonLength+1)}, pkg.ErrBadRequest},
		{"missing user", testStaff, models.IssueInfractionRequest{Reason: "x"}, pkg.ErrBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			_, err := env.infraction.Issue(ctx, testServer, tt.actor, &req)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if !pkg.IsRejection(err) {
				t.Errorf("%v is not a rejection", err)
			}
		})
	}

	list, err := env.infractions.ListBySubject(ctx, testServer, "u1", 10)
	if err != nil {
		t.Fatalf("ListBySubject: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("rejected issues stored %d records", len(list))
	}
	if env.platform.sentCount() != 0 {
		t.Errorf("rejected issues sent %d notices", env.platform.sentCount())
	}
}

func TestIssue_UnconfiguredChannelsAreSkipped(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	if err := env.config.SetStaffRole(ctx, testServer, testOwner, staffRole); err != nil {
		t.Fatalf("SetStaffRole: %v", err)
	}

	issue(t, env, testMember, "spam")

	if env.platform.sentCount() != 0 {
		t.Errorf("sent %d messages with no channels configured", env.platform.sentCount())
	}
}

func TestIssue_NotificationFailureIsSwallowed(t *testing.T) {
	env := newTestEnv(t, nil)
	env.configure(t)
	env.platform.sendErr["c-action"] = pkg.ErrNotFound
	env.mailer.err = errors.New("smtp down")

	inf := issue(t, env, testMember, "spam")

	if len(env.platform.sentTo("c-log")) != 1 {
		t.Error("log notice not sent after action channel failure")
	}
	if _, err := env.infractions.GetByCaseID(context.Background(), testServer, inf.CaseID); err != nil {
		t.Errorf("record missing after notification failure: %v", err)
	}
}

func TestIssue_CaseIDCollisionFailsWithoutOverwrite(t *testing.T) {
	env := newTestEnv(t, sequenceIDs("aaaaaaaaaa", "aaaaaaaaaa"))
	env.configure(t)
	ctx := context.Background()

	first := issue(t, env, testMember, "first")

	_, err := env.infraction.Issue(ctx, testServer, testStaff,
		&models.IssueInfractionRequest{SubjectUserID: "u2", Reason: "second"})
	if !errors.Is(err, pkg.ErrAlreadyExists) {
		t.Fatalf("err = %v, want ErrAlreadyExists", err)
	}
	if pkg.IsRejection(err) {
		t.Error("collision reported as a rejection")
	}

	stored, err := env.infractions.GetByCaseID(ctx, testServer, "aaaaaaaaaa")
	if err != nil {
		t.Fatalf("GetByCaseID: %v", err)
	}
	if stored.ID != first.ID || stored.Reason != "first" {
		t.Errorf("record overwritten: %+v", stored)
	}
	if got := len(env.platform.sentTo("c-action")); got != 1 {
		t.Errorf("action notices = %d, want 1", got)
	}
}

func TestRevoke(t *testing.T) {
	env := newTestEnv(t, sequenceIDs("0a1b2c3d4e"))
	env.configure(t)
	ctx := context.Background()

	inf := issue(t, env, testMember, "spam")

	revoked, err := env.infraction.Revoke(ctx, testServer, testStaff, "  0A1B2C3D4E ")
	if err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	if revoked.Active || revoked.RevokedBy == nil || *revoked.RevokedBy != testStaff {
		t.Errorf("revoked = %+v", revoked)
	}

	// log only: the action channel still holds just the issue notice
	if got := env.platform.sentTo("c-action"); len(got) != 1 {
		t.Errorf("action messages = %d, want 1", len(got))
	}
	logs := env.platform.sentTo("c-log")
	if len(logs) != 2 || logs[1] != "**❌ Infraction Revoked**\n**Case ID:** 0a1b2c3d4e" {
		t.Errorf("log messages = %q", logs)
	}
	if ops := env.hub.ops(); !reflect.DeepEqual(ops, []string{ws.OpInfractionCreate, ws.OpInfractionRevoke}) {
		t.Errorf("feed ops = %v", ops)
	}

	// terminal: a second revoke is rejected and sends nothing
	if _, err := env.infraction.Revoke(ctx, testServer, testStaff, inf.CaseID); !errors.Is(err, ErrInvalidCase) {
		t.Fatalf("second Revoke err = %v, want ErrInvalidCase", err)
	}
	if got := len(env.platform.sentTo("c-log")); got != 2 {
		t.Errorf("log messages after second revoke = %d, want 2", got)
	}
}

func TestRevoke_Rejections(t *testing.T) {
	env := newTestEnv(t, nil)
	env.configure(t)
	ctx := context.Background()
	inf := issue(t, env, testMember, "spam")

	tests := []struct {
		name   string
		actor  string
		caseID string
		want   error
	}{
		{"not staff", testMember, inf.CaseID, ErrNotStaff},
		{"unknown", testStaff, "ffffffffff", ErrInvalidCase},
		{"malformed", testStaff, "nope", ErrInvalidCase},
		{"empty", testStaff, "", ErrInvalidCase},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := env.infraction.Revoke(ctx, testServer, tt.actor, tt.caseID); !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}

	stored, err := env.infractions.GetByCaseID(ctx, testServer, inf.CaseID)
	if err != nil {
		t.Fatalf("GetByCaseID: %v", err)
	}
	if !stored.Active {
		t.Error("record revoked by a rejected call")
	}
}

func TestLookups(t *testing.T) {
	env := newTestEnv(t, nil)
	env.configure(t)
	ctx := context.Background()

	var last *models.Infraction
	for i := 0; i < LookupLimit+2; i++ {
		last = issue(t, env, testMember, "spam")
	}

	list, err := env.infraction.ListBySubject(ctx, testServer, testStaff, testMember)
	if err != nil {
		t.Fatalf("ListBySubject: %v", err)
	}
	if len(list) != LookupLimit {
		t.Errorf("len = %d, want %d", len(list), LookupLimit)
	}

	got, err := env.infraction.GetByCaseID(ctx, testServer, testStaff, last.CaseID)
	if err != nil {
		t.Fatalf("GetByCaseID: %v", err)
	}
	if got.ID != last.ID {
		t.Errorf("GetByCaseID id = %s, want %s", got.ID, last.ID)
	}

	if _, err := env.infraction.ListBySubject(ctx, testServer, testMember, testMember); !errors.Is(err, ErrNotStaff) {
		t.Errorf("member list err = %v, want ErrNotStaff", err)
	}
}
