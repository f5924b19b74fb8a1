package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Peer is the ephemeral record broadcast for a user with a list open.
type Peer struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Color  string `json:"color"`
}

// Presence tracks which users currently have a list open. State lives in
// redis only: a hash of peer payloads plus a sorted set of heartbeat
// deadlines per list. Nothing is persisted.
type Presence struct {
	client redis.UniversalClient
	feed   *Feed
	ttl    time.Duration
}

func NewPresence(client redis.UniversalClient, feed *Feed, ttl time.Duration) *Presence {
	return &Presence{client: client, feed: feed, ttl: ttl}
}

func peersKey(listID string) string     { return "presence:peers:" + listID }
func deadlinesKey(listID string) string { return "presence:deadlines:" + listID }

func (p *Presence) Join(ctx context.Context, listID, userID, email string) error {
	peer := Peer{UserID: userID, Email: email, Name: DisplayName(email), Color: ColorFor(email)}
	b, _ := json.Marshal(peer)
	pipe := p.client.TxPipeline()
	pipe.HSet(ctx, peersKey(listID), userID, b)
	pipe.ZAdd(ctx, deadlinesKey(listID), redis.Z{Score: deadline(p.ttl), Member: userID})
	pipe.Expire(ctx, peersKey(listID), 24*time.Hour)
	pipe.Expire(ctx, deadlinesKey(listID), 24*time.Hour)
	if _, err := pipe.Exec(ctx); err != nil {
		return err
	}
	p.feed.PublishPresence(ctx, listID, "join")
	return nil
}

func (p *Presence) Heartbeat(ctx context.Context, listID, userID string) error {
	return p.client.ZAddXX(ctx, deadlinesKey(listID), redis.Z{Score: deadline(p.ttl), Member: userID}).Err()
}

func (p *Presence) Leave(ctx context.Context, listID, userID string) error {
	pipe := p.client.TxPipeline()
	pipe.HDel(ctx, peersKey(listID), userID)
	pipe.ZRem(ctx, deadlinesKey(listID), userID)
	if _, err := pipe.Exec(ctx); err != nil {
		return err
	}
	p.feed.PublishPresence(ctx, listID, "leave")
	return nil
}

// Snapshot prunes expired peers, then returns everyone except the caller,
// ordered by email so repeated reads are stable.
func (p *Presence) Snapshot(ctx context.Context, listID, selfID string) ([]Peer, error) {
	now := strconv.FormatFloat(float64(time.Now().Unix()), 'f', -1, 64)
	expired, err := p.client.ZRangeByScore(ctx, deadlinesKey(listID), &redis.ZRangeBy{Min: "-inf", Max: now}).Result()
	if err != nil {
		return nil, err
	}
	if len(expired) > 0 {
		pipe := p.client.TxPipeline()
		pipe.HDel(ctx, peersKey(listID), expired...)
		pipe.ZRem(ctx, deadlinesKey(listID), expiredMembers(expired)...)
		if _, err := pipe.Exec(ctx); err != nil {
			return nil, err
		}
	}
	raw, err := p.client.HGetAll(ctx, peersKey(listID)).Result()
	if err != nil {
		return nil, err
	}
	return filterPeers(raw, selfID), nil
}

// filterPeers decodes the raw presence hash, dropping the caller and any
// payload that no longer parses, and orders the rest by email.
func filterPeers(raw map[string]string, selfID string) []Peer {
	peers := make([]Peer, 0, len(raw))
	for userID, payload := range raw {
		if userID == selfID {
			continue
		}
		var peer Peer
		if err := json.Unmarshal([]byte(payload), &peer); err != nil {
			continue
		}
		peers = append(peers, peer)
	}
	sort.Slice(peers, func(i, j int) bool { return peers[i].Email < peers[j].Email })
	return peers
}

func deadline(ttl time.Duration) float64 {
	return float64(time.Now().Add(ttl).Unix())
}

func expiredMembers(ids []string) []interface{} {
	out := make([]interface{}, len(ids))
	for i, id := range ids {
		out[i] = id
	}
	return out
}

// DisplayName derives the short name shown next to a presence dot.
func DisplayName(email string) string {
	if i := strings.IndexByte(email, '@'); i >= 0 {
		return email[:i]
	}
	return email
}

// ColorFor maps an email to a deterministic hue. Arithmetic is int32 on
// UTF-16 code units so existing clients keep their colors.
func ColorFor(s string) string {
	var hash int32
	for _, r := range s {
		hash = int32(r) + (hash<<5 - hash)
	}
	return fmt.Sprintf("hsl(%d, 70%%, 50%%)", hash%360)
}
