package translator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lmco/eurekastreams/internal/domain"
	"github.com/lmco/eurekastreams/internal/notification"
)

func TestLikeTranslator(t *testing.T) {
	t.Parallel()

	appPost := personalPost(101, 9, 1)
	appPost.ActorType = domain.EntityApp
	tr := NewLikeTranslator(activities(personalPost(100, 1, 7), appPost))

	tests := []struct {
		name     string
		actor    int64
		activity int64
		want     []int64
	}{
		{name: "notifies author", actor: 2, activity: 100, want: []int64{1}},
		{name: "author likes own post", actor: 1, activity: 100},
		{name: "activity gone", actor: 2, activity: 404},
		{name: "app authored", actor: 2, activity: 101},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			batch, err := tr.Translate(context.Background(), domain.ActivityEvent{
				Type:       domain.EventLike,
				ActorID:    tt.actor,
				ActivityID: tt.activity,
			})
			require.NoError(t, err)
			if tt.want == nil {
				assert.Nil(t, batch)
				return
			}
			require.NotNil(t, batch)
			assert.Equal(t, tt.want, batch.Recipients(notification.LikeActivity))

			stream, ok := batch.Property(notification.PropStream)
			require.True(t, ok)
			assert.Equal(t, notification.PersonRef(7), stream)
			activity, ok := batch.Property(notification.PropActivity)
			require.True(t, ok)
			assert.Equal(t, notification.ActivityRef(tt.activity), activity)
		})
	}
}
