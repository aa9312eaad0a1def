package order

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"photoshoot-bot/internal/domain"
)

func participant(role domain.Role, price float64) domain.Participant {
	return domain.Participant{ID: uuid.New(), Role: role, Name: string(role), Price: price}
}

func TestMergeFresh(t *testing.T) {
	photographer := participant(domain.RolePhotographer, 80)
	customer := domain.User{ID: uuid.New()}

	s := Merge(nil, Overrides{
		Type:         ptr(domain.OrderTypeLoveStory),
		Photographer: &photographer,
		Customer:     &customer,
	})

	want := State{
		Type:           ptr(domain.OrderTypeLoveStory),
		PhotographerID: &photographer.ID,
		HourPrice:      80,
		UserID:         &customer.ID,
	}
	if diff := cmp.Diff(want, s); diff != "" {
		t.Errorf("Merge mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeFallsBackToPrevious(t *testing.T) {
	studio := uuid.New()
	date := time.Date(2026, 7, 3, 15, 0, 0, 0, time.UTC)
	orderID := uuid.New()
	prev := State{StudioID: &studio, Date: &date, HourPrice: 10, ID: &orderID, IsCancelled: true}

	stylist := participant(domain.RoleStylist, 25)
	s := Merge(&prev, Overrides{Stylist: &stylist})

	assert.Equal(t, studio, *s.StudioID)
	assert.Equal(t, date, *s.Date)
	assert.Equal(t, stylist.ID, *s.StylistID)
	assert.Equal(t, orderID, *s.ID)
	assert.True(t, s.IsCancelled)
	assert.Equal(t, 35.0, s.HourPrice)
}

func TestMergeOverrideWins(t *testing.T) {
	first := participant(domain.RoleStudio, 40)
	second := participant(domain.RoleStudio, 60)

	s := Merge(nil, Overrides{Studio: &first})
	s = Merge(&s, Overrides{Studio: &second})

	assert.Equal(t, second.ID, *s.StudioID)
	// the replaced studio's price stays in the accumulated hour price
	assert.Equal(t, 100.0, s.HourPrice)
}

func TestMergeDoubleCounts(t *testing.T) {
	stylist := participant(domain.RoleStylist, 30)

	s := Merge(nil, Overrides{Stylist: &stylist})
	s = Merge(&s, Overrides{Stylist: &stylist})

	assert.Equal(t, 60.0, s.HourPrice)
}

func TestMergeDisjointEqualsUnion(t *testing.T) {
	stylist := participant(domain.RoleStylist, 30)
	makeuper := participant(domain.RoleMakeuper, 20)
	duration := 2 * time.Hour

	stepwise := Merge(nil, Overrides{Stylist: &stylist})
	stepwise = Merge(&stepwise, Overrides{Makeuper: &makeuper})
	stepwise = Merge(&stepwise, Overrides{Duration: &duration})

	union := Merge(nil, Overrides{Stylist: &stylist, Makeuper: &makeuper, Duration: &duration})

	if diff := cmp.Diff(union, stepwise); diff != "" {
		t.Errorf("stepwise merge differs from union (-union +stepwise):\n%s", diff)
	}
}

func TestWithParticipant(t *testing.T) {
	for _, role := range domain.Roles {
		p := participant(role, 1)
		s := Merge(nil, Overrides{}.WithParticipant(p))
		assert.Equal(t, 1.0, s.HourPrice, role)
	}

	studio := participant(domain.RoleStudio, 1)
	assert.Equal(t, studio.ID, *Merge(nil, Overrides{}.WithParticipant(studio)).StudioID)
}
