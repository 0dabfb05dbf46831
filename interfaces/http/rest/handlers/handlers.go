package handlers

import (
	"net/http"
	"time"

	"cozyberries-backend/infrastructure/cache"
	"cozyberries-backend/pkg/auth"
	"cozyberries-backend/pkg/common"
)

// cacheMeta converts a read-through outcome into response metadata so
// clients can tell whether they got fresh, stale or source-of-record data.
func cacheMeta(status cache.Status, ttlRemaining time.Duration) *common.MetaInfo {
	info := &common.CacheInfo{Status: string(status)}
	if ttlRemaining > 0 {
		info.TTLRemainingSeconds = int64(ttlRemaining / time.Second)
	}
	return &common.MetaInfo{Cache: info}
}

// requestUser pulls the authenticated user set by the auth middleware,
// writing the 401 itself when the context is missing.
func requestUser(w http.ResponseWriter, r *http.Request) (*auth.UserContext, bool) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
		return nil, false
	}
	return user, true
}
