package notifier

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/gdg-garage/visitor-intake-api/internal/models"
)

type fakeSender struct {
	channel string
	content string
	err     error
}

func (f *fakeSender) ChannelMessageSend(channelID string, content string, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.channel = channelID
	f.content = content
	return &discordgo.Message{}, f.err
}

func sampleVisit() models.Visit {
	return models.Visit{
		CompanyName:     "Acme",
		WhoTheyMeet:     "Jane Perera",
		PurposeOfVisit:  "Audit",
		ScheduledDate:   "2030-01-01",
		TimeOfEntry:     time.Date(2030, 1, 1, 3, 30, 0, 0, time.UTC),
		TimeOfDeparture: time.Date(2030, 1, 1, 5, 30, 0, 0, time.UTC),
		AccessibleFloors: []models.AccessibleFloor{
			{Floor: "Ground Floor", Room: "Lobby"},
		},
		Visitors: []models.Visitor{
			{FullName: "Nimal Silva", PassNumber: "P-001"},
			{FullName: "Sunil Fernando", PassNumber: "P-002"},
		},
	}
}

func TestFormatVisitMessage(t *testing.T) {
	loc := time.FixedZone("LKT", 5*3600+1800)
	msg := FormatVisitMessage(models.Employee{Name: "Kamal"}, sampleVisit(), loc)

	for _, want := range []string{
		"**Host:** Kamal",
		"**Company:** Acme",
		"**When:** 2030-01-01 09:00 - 11:00",
		"**Access:** Ground Floor / Lobby",
		"**Visitors (2):**",
		"- Sunil Fernando (pass P-002)",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q:\n%s", want, msg)
		}
	}
}

func TestFormatVisitMessageWithoutCompany(t *testing.T) {
	v := sampleVisit()
	v.CompanyName = ""
	msg := FormatVisitMessage(models.Employee{Name: "Kamal"}, v, nil)
	if strings.Contains(msg, "Company") {
		t.Errorf("expected no company line, got:\n%s", msg)
	}
	if !strings.Contains(msg, "03:30 - 05:30") {
		t.Errorf("expected UTC times, got:\n%s", msg)
	}
}

func TestNotifyVisit(t *testing.T) {
	sender := &fakeSender{}
	n := &DiscordNotifier{session: sender, channelID: "chan-1", loc: time.UTC}

	if err := n.NotifyVisit(models.Employee{Name: "Kamal"}, sampleVisit()); err != nil {
		t.Fatalf("NotifyVisit returned error: %v", err)
	}
	if sender.channel != "chan-1" {
		t.Errorf("expected channel chan-1, got %s", sender.channel)
	}
	if !strings.Contains(sender.content, "New Visit Scheduled") {
		t.Errorf("unexpected content: %s", sender.content)
	}

	sender.err = errors.New("discord down")
	if err := n.NotifyVisit(models.Employee{}, sampleVisit()); err == nil {
		t.Error("expected send error to be returned")
	}
}

func TestNotifyVisitNotConfigured(t *testing.T) {
	n := NewDiscordNotifier(nil, "chan-1", time.UTC)
	if err := n.NotifyVisit(models.Employee{}, sampleVisit()); err == nil {
		t.Error("expected error for nil session")
	}

	n = &DiscordNotifier{session: &fakeSender{}}
	if err := n.NotifyVisit(models.Employee{}, sampleVisit()); err == nil {
		t.Error("expected error for empty channel")
	}
}

func TestNewDiscordSessionEmptyToken(t *testing.T) {
	if _, err := NewDiscordSession(""); err == nil {
		t.Error("expected error for empty token")
	}
}
