package redis

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	authsvc "github.com/rukshanyomal11/CeylonHomes/internal/services/auth"
)

// Seller and admin sessions live under the auth: namespace. A session
// hash, a refresh-token hash, a sid-to-refresh pointer, and a per-user
// sid set are kept in step so logout and logout-everywhere can find
// every key from either end.
const (
	sessionPrefix    = "auth:session:"
	refreshPrefix    = "auth:refresh:"
	refreshPtrPrefix = "auth:session_refresh:"
	userSIDsPrefix   = "auth:user_sids:"
)

type SessionRepo struct {
	client *goredis.Client
}

func NewSessionRepo(client *goredis.Client) *SessionRepo {
	return &SessionRepo{client: client}
}

func sessionFields(session authsvc.SessionRecord) map[string]interface{} {
	return map[string]interface{}{
		"user_id":    session.UserID,
		"role":       session.Role,
		"email":      session.Email,
		"expires_at": session.ExpiresAt.Unix(),
	}
}

// writeSession queues every key one session owns onto the pipeline.
func writeSession(ctx context.Context, pipe goredis.Pipeliner, session authsvc.SessionRecord, refreshToken string, ttl time.Duration) {
	refreshFields := sessionFields(session)
	refreshFields["sid"] = session.SID

	pipe.HSet(ctx, sessionKey(session.SID), sessionFields(session))
	pipe.Expire(ctx, sessionKey(session.SID), ttl)
	pipe.HSet(ctx, refreshKey(refreshToken), refreshFields)
	pipe.Expire(ctx, refreshKey(refreshToken), ttl)
	pipe.Set(ctx, refreshPtrKey(session.SID), refreshToken, ttl)
	pipe.SAdd(ctx, userSIDsKey(session.UserID), session.SID)
	pipe.Expire(ctx, userSIDsKey(session.UserID), ttl)
}

func (r *SessionRepo) Create(ctx context.Context, session authsvc.SessionRecord, refreshToken string) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if strings.TrimSpace(session.SID) == "" || strings.TrimSpace(refreshToken) == "" || session.UserID <= 0 {
		return authsvc.ErrInvalidInput
	}

	pipe := r.client.TxPipeline()
	writeSession(ctx, pipe, session, refreshToken, ttlFor(session.ExpiresAt))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

func (r *SessionRepo) GetSession(ctx context.Context, sid string) (authsvc.SessionRecord, error) {
	if r.client == nil {
		return authsvc.SessionRecord{}, fmt.Errorf("redis client is nil")
	}

	values, err := r.client.HGetAll(ctx, sessionKey(sid)).Result()
	if err != nil {
		return authsvc.SessionRecord{}, fmt.Errorf("get session hash: %w", err)
	}
	if len(values) == 0 {
		return authsvc.SessionRecord{}, authsvc.ErrSessionNotFound
	}

	session, err := parseSessionRecord(values)
	if err != nil {
		return authsvc.SessionRecord{}, err
	}
	session.SID = sid
	return session, nil
}

func (r *SessionRepo) GetByRefreshToken(ctx context.Context, refreshToken string) (authsvc.SessionRecord, error) {
	if r.client == nil {
		return authsvc.SessionRecord{}, fmt.Errorf("redis client is nil")
	}

	values, err := r.client.HGetAll(ctx, refreshKey(refreshToken)).Result()
	if err != nil {
		return authsvc.SessionRecord{}, fmt.Errorf("get refresh hash: %w", err)
	}
	if len(values) == 0 {
		return authsvc.SessionRecord{}, authsvc.ErrRefreshNotFound
	}

	session, err := parseSessionRecord(values)
	if err != nil {
		return authsvc.SessionRecord{}, err
	}

	session.SID = strings.TrimSpace(values["sid"])
	if session.SID == "" {
		return authsvc.SessionRecord{}, authsvc.ErrRefreshNotFound
	}
	return session, nil
}

// RotateRefresh replaces the refresh token in place: the old token hash
// is deleted in the same transaction that writes the new one, so the
// old token can never resolve again.
func (r *SessionRepo) RotateRefresh(ctx context.Context, sid, oldRefreshToken, newRefreshToken string, expiresAt time.Time) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}

	session, err := r.GetByRefreshToken(ctx, oldRefreshToken)
	if err != nil {
		return err
	}
	if sid != "" && sid != session.SID {
		return authsvc.ErrRefreshNotFound
	}
	session.ExpiresAt = expiresAt

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, refreshKey(oldRefreshToken))
	writeSession(ctx, pipe, session, newRefreshToken, ttlFor(expiresAt))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("rotate refresh token: %w", err)
	}
	return nil
}

func (r *SessionRepo) DeleteSession(ctx context.Context, sid string) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if strings.TrimSpace(sid) == "" {
		return nil
	}

	values, err := r.client.HGetAll(ctx, sessionKey(sid)).Result()
	if err != nil {
		return fmt.Errorf("load session for delete: %w", err)
	}

	refreshToken, err := r.client.Get(ctx, refreshPtrKey(sid)).Result()
	if err != nil && err != goredis.Nil {
		return fmt.Errorf("load refresh pointer: %w", err)
	}

	var userID int64
	if parsed, parseErr := strconv.ParseInt(values["user_id"], 10, 64); parseErr == nil && parsed > 0 {
		userID = parsed
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, sessionKey(sid))
	pipe.Del(ctx, refreshPtrKey(sid))
	if refreshToken != "" {
		pipe.Del(ctx, refreshKey(refreshToken))
	}
	if userID > 0 {
		pipe.SRem(ctx, userSIDsKey(userID), sid)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteAllForUser revokes every session the account holds, used after
// a password reset.
func (r *SessionRepo) DeleteAllForUser(ctx context.Context, userID int64) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if userID <= 0 {
		return authsvc.ErrInvalidInput
	}

	sids, err := r.client.SMembers(ctx, userSIDsKey(userID)).Result()
	if err != nil {
		return fmt.Errorf("list user sessions: %w", err)
	}
	for _, sid := range sids {
		if err := r.DeleteSession(ctx, sid); err != nil {
			return err
		}
	}

	if err := r.client.Del(ctx, userSIDsKey(userID)).Err(); err != nil {
		return fmt.Errorf("delete user sid set: %w", err)
	}
	return nil
}

func parseSessionRecord(values map[string]string) (authsvc.SessionRecord, error) {
	userID, err := strconv.ParseInt(values["user_id"], 10, 64)
	if err != nil || userID <= 0 {
		return authsvc.SessionRecord{}, authsvc.ErrUnauthorized
	}

	expiresUnix, err := strconv.ParseInt(values["expires_at"], 10, 64)
	if err != nil {
		return authsvc.SessionRecord{}, authsvc.ErrUnauthorized
	}

	return authsvc.SessionRecord{
		UserID:    userID,
		Role:      values["role"],
		Email:     values["email"],
		ExpiresAt: time.Unix(expiresUnix, 0).UTC(),
	}, nil
}

func ttlFor(expiresAt time.Time) time.Duration {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return time.Second
	}
	return ttl
}

func sessionKey(sid string) string {
	return sessionPrefix + sid
}

func refreshKey(token string) string {
	return refreshPrefix + token
}

func refreshPtrKey(sid string) string {
	return refreshPtrPrefix + sid
}

func userSIDsKey(userID int64) string {
	return userSIDsPrefix + strconv.FormatInt(userID, 10)
}
