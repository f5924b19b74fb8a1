package realtime

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Sagar1205/QuickTask/internal/consts"
	"github.com/Sagar1205/QuickTask/internal/logging"
	"github.com/Sagar1205/QuickTask/internal/metrics"
	"github.com/Sagar1205/QuickTask/internal/model"
)

const changeChannelPrefix = "changes:"

func presenceChannel(listID string) string { return "presence:list:" + listID }

// Feed publishes mutation events and fans them back out to list streams.
// Consumers re-fetch the affected table on any event.
type Feed struct {
	client redis.UniversalClient
	met    *metrics.Metrics
}

func NewFeed(client redis.UniversalClient, met *metrics.Metrics) *Feed {
	return &Feed{client: client, met: met}
}

// PublishChange is best-effort: a publish failure is logged and dropped,
// clients reconcile on their next full fetch anyway.
func (f *Feed) PublishChange(ctx context.Context, table, listID, action string) {
	ev := model.ChangeEvent{Kind: "change", Table: table, ListID: listID, Action: action}
	b, _ := json.Marshal(ev)
	if err := f.client.Publish(ctx, changeChannelPrefix+table, b).Err(); err != nil {
		logging.Error(ctx, "change publish failed",
			zap.String("table", table), zap.String("list_id", listID), zap.Error(err))
		return
	}
	if f.met != nil {
		f.met.EventsPublished.Inc()
	}
}

func (f *Feed) PublishPresence(ctx context.Context, listID, action string) {
	ev := model.ChangeEvent{Kind: "presence", ListID: listID, Action: action}
	b, _ := json.Marshal(ev)
	if err := f.client.Publish(ctx, presenceChannel(listID), b).Err(); err != nil {
		logging.Error(ctx, "presence publish failed",
			zap.String("list_id", listID), zap.Error(err))
	}
}

// Subscribe delivers the list's change and presence events until cancel is
// called or ctx ends. Events for other lists are filtered out.
func (f *Feed) Subscribe(ctx context.Context, listID string) (<-chan model.ChangeEvent, func()) {
	ps := f.client.Subscribe(ctx,
		changeChannelPrefix+consts.TableTasks,
		changeChannelPrefix+consts.TableLists,
		changeChannelPrefix+consts.TableMembers,
		presenceChannel(listID),
	)
	out := make(chan model.ChangeEvent, 16)
	go func() {
		defer close(out)
		for msg := range ps.Channel() {
			var ev model.ChangeEvent
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				continue
			}
			if ev.ListID != listID {
				continue
			}
			select {
			case out <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, func() { _ = ps.Close() }
}
