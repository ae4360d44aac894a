package notifier

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/gdg-garage/visitor-intake-api/internal/models"
)

type Notifier interface {
	NotifyVisit(employee models.Employee, visit models.Visit) error
}

// channelSender is the part of *discordgo.Session the notifier uses.
type channelSender interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// DiscordNotifier posts new visits to the security desk channel.
type DiscordNotifier struct {
	session   channelSender
	channelID string
	loc       *time.Location
}

// NewDiscordSession opens a bot session for token.
func NewDiscordSession(token string) (*discordgo.Session, error) {
	if token == "" {
		return nil, fmt.Errorf("discord bot token is empty")
	}
	return discordgo.New("Bot " + token)
}

func NewDiscordNotifier(session *discordgo.Session, channelID string, loc *time.Location) *DiscordNotifier {
	n := &DiscordNotifier{channelID: channelID, loc: loc}
	if session != nil {
		n.session = session
	}
	return n
}

func (n *DiscordNotifier) NotifyVisit(employee models.Employee, visit models.Visit) error {
	if n.session == nil {
		return fmt.Errorf("discord session is nil")
	}
	if n.channelID == "" {
		return fmt.Errorf("discord channel ID is empty")
	}

	_, err := n.session.ChannelMessageSend(n.channelID, FormatVisitMessage(employee, visit, n.loc))
	return err
}

// FormatVisitMessage renders the security desk announcement for visit.
func FormatVisitMessage(employee models.Employee, visit models.Visit, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🛂 **New Visit Scheduled**\n**Host:** %s\n**Meeting:** %s\n**Purpose:** %s",
		employee.Name,
		visit.WhoTheyMeet,
		visit.PurposeOfVisit,
	)
	if visit.CompanyName != "" {
		fmt.Fprintf(&b, "\n**Company:** %s", visit.CompanyName)
	}
	fmt.Fprintf(&b, "\n**When:** %s %s - %s",
		visit.ScheduledDate,
		visit.TimeOfEntry.In(loc).Format("15:04"),
		visit.TimeOfDeparture.In(loc).Format("15:04"),
	)

	rooms := make([]string, 0, len(visit.AccessibleFloors))
	for _, f := range visit.AccessibleFloors {
		rooms = append(rooms, f.Floor+" / "+f.Room)
	}
	fmt.Fprintf(&b, "\n**Access:** %s", strings.Join(rooms, ", "))

	fmt.Fprintf(&b, "\n**Visitors (%d):**", len(visit.Visitors))
	for _, v := range visit.Visitors {
		fmt.Fprintf(&b, "\n- %s (pass %s)", v.FullName, v.PassNumber)
	}

	return b.String()
}
