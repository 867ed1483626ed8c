package translator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lmco/eurekastreams/internal/domain"
	"github.com/lmco/eurekastreams/internal/notification"
)

func TestGroupMembershipTranslator(t *testing.T) {
	t.Parallel()

	tr := NewGroupMembershipTranslator(
		groups(domain.Group{ID: 50, ShortName: "secret", Private: true}),
		listOf(map[int64][]int64{50: {10, 11}}).Lookup(),
	)

	tests := []struct {
		name     string
		event    domain.MembershipEvent
		category notification.Category
		want     []int64
		url      string
	}{
		{
			name:     "request goes to coordinators",
			event:    domain.MembershipEvent{ActorID: 3, GroupID: 50, RequesterID: 3, Decision: domain.DecisionRequested},
			category: notification.RequestGroupAccess,
			want:     []int64{10, 11},
		},
		{
			name:     "approval goes to requester with link",
			event:    domain.MembershipEvent{ActorID: 10, GroupID: 50, RequesterID: 3, Decision: domain.DecisionApproved},
			category: notification.GroupMembershipApproved,
			want:     []int64{3},
			url:      "/groups/secret",
		},
		{
			name:     "denial goes to requester",
			event:    domain.MembershipEvent{ActorID: 11, GroupID: 50, RequesterID: 3, Decision: domain.DecisionDenied},
			category: notification.GroupMembershipDenied,
			want:     []int64{3},
		},
		{
			name:  "coordinator approving self",
			event: domain.MembershipEvent{ActorID: 10, GroupID: 50, RequesterID: 10, Decision: domain.DecisionApproved},
		},
		{
			name:  "group gone",
			event: domain.MembershipEvent{ActorID: 3, GroupID: 51, RequesterID: 3, Decision: domain.DecisionRequested},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tt.event.Type = domain.EventGroupMembership
			batch, err := tr.Translate(context.Background(), tt.event)
			require.NoError(t, err)
			if tt.want == nil {
				assert.Nil(t, batch)
				return
			}
			require.NotNil(t, batch)
			assert.Equal(t, []notification.Category{tt.category}, batch.Categories())
			assert.Equal(t, tt.want, batch.Recipients(tt.category))

			stream, ok := batch.Property(notification.PropStream)
			require.True(t, ok)
			assert.Equal(t, notification.GroupRef(50), stream)

			url, ok := batch.Property(notification.PropURL)
			if tt.url == "" {
				assert.False(t, ok)
				return
			}
			require.True(t, ok)
			assert.Equal(t, notification.Literal{V: tt.url}, url)
		})
	}
}

func TestGroupMembershipTranslator_UnknownDecision(t *testing.T) {
	t.Parallel()

	tr := NewGroupMembershipTranslator(groups(domain.Group{ID: 50}), listOf(nil).Lookup())
	_, err := tr.Translate(context.Background(), domain.MembershipEvent{ActorID: 3, GroupID: 50, RequesterID: 3, Decision: "maybe"})
	require.ErrorIs(t, err, ErrUnknownDecision)
}
