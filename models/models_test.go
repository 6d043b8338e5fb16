package models

import (
	"reflect"
	"strings"
	"testing"
)

func TestNormalizeRoleIDs(t *testing.T) {
	tests := []struct {
		in   []string
		want []string
	}{
		{[]string{"r1", "", "", "", "", ""}, []string{"r1"}},
		{[]string{"r3", "r1", "r3", "", "r2", "r1"}, []string{"r3", "r1", "r2"}},
		{[]string{"", ""}, []string{}},
		{nil, []string{}},
	}
	for _, tt := range tests {
		if got := NormalizeRoleIDs(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("NormalizeRoleIDs(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsPromotable(t *testing.T) {
	cfg := &GuildConfig{PromotableRoleIDs: []string{"r1", "r2"}}
	if !cfg.IsPromotable("r2") {
		t.Error("r2 should be promotable")
	}
	if cfg.IsPromotable("r3") {
		t.Error("r3 should not be promotable")
	}
	if (&GuildConfig{}).IsPromotable("") {
		t.Error("empty config promotes nothing")
	}
}

func TestIssueInfractionRequestValidate(t *testing.T) {
	req := &IssueInfractionRequest{SubjectUserID: "u1", Reason: "  spam \n"}
	if err := req.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if req.Reason != "spam" {
		t.Errorf("Reason = %q, want trimmed", req.Reason)
	}

	// the limit counts runes, not bytes
	ok := &IssueInfractionRequest{SubjectUserID: "u1", Reason: strings.Repeat("ş", MaxReasonLength)}
	if err := ok.Validate(); err != nil {
		t.Errorf("%d runes rejected: %v", MaxReasonLength, err)
	}

	for _, bad := range []*IssueInfractionRequest{
		{SubjectUserID: "", Reason: "x"},
		{SubjectUserID: "u1", Reason: " \t"},
		{SubjectUserID: "u1", Reason: strings.Repeat("a", MaxReasonLength+1)},
	} {
		if err := bad.Validate(); err == nil {
			t.Errorf("Validate(%+v) = nil, want error", bad)
		}
	}
}

func TestNoticeRender(t *testing.T) {
	n := &Notice{Title: "🚨 Infraction Issued"}
	n.AddField("User", UserMention("u1")).AddField("Reason", "spam").AddField("Case ID", "0a1b2c3d4e")

	want := "**🚨 Infraction Issued**\n**User:** <@u1>\n**Reason:** spam\n**Case ID:** 0a1b2c3d4e"
	if got := n.Render(); got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}

	if v, ok := n.Field("Case ID"); !ok || v != "0a1b2c3d4e" {
		t.Errorf("Field(Case ID) = %q, %v", v, ok)
	}
	if _, ok := n.Field("Role"); ok {
		t.Error("Field(Role) found on an infraction notice")
	}
}

func TestNoticeTarget(t *testing.T) {
	both := TargetAction | TargetLog
	if !both.Has(TargetAction) || !both.Has(TargetLog) {
		t.Error("combined target missing a destination")
	}
	if TargetLog.Has(TargetAction) {
		t.Error("log-only target includes action")
	}
}

func TestInteractionName(t *testing.T) {
	in := &Interaction{Command: "infraction", Subcommand: "issue", Options: map[string]string{"user": "u1"}}
	if in.Name() != "infraction issue" {
		t.Errorf("Name() = %q", in.Name())
	}
	if (&Interaction{Command: "promote"}).Name() != "promote" {
		t.Error("Name() without subcommand")
	}

	if in.Option("user") != "u1" || in.Option("reason") != "" {
		t.Errorf("Option() = %q / %q", in.Option("user"), in.Option("reason"))
	}
	if (&Interaction{}).Option("x") != "" {
		t.Error("Option on nil map")
	}
}

func TestServerIsOwner(t *testing.T) {
	s := &Server{OwnerID: "o1"}
	if !s.IsOwner("o1") || s.IsOwner("o2") {
		t.Error("IsOwner mismatch")
	}
	if (&Server{}).IsOwner("") {
		t.Error("empty owner matched empty user")
	}
}
