package feed

import (
	"time"

	"github.com/bitcheongmo/sitefeed/internal/content"
	"github.com/bitcheongmo/sitefeed/pkg/interfaces"
)

// NoticeDuration is how long sync notices stay visible.
const NoticeDuration = 5 * time.Second

const (
	partialMessage  = "일부 데이터를 불러오지 못했습니다."
	degradedMessage = "최신 데이터를 불러오지 못했습니다. 캐시된 데이터를 표시합니다."
)

// SyncNotice builds the notice shown for meta. The boolean is false for
// statuses that need no notice (success and unknown).
func SyncNotice(meta content.SyncMetadata) (interfaces.Notice, bool) {
	var message string
	switch meta.SyncStatus {
	case content.SyncPartial:
		message = partialMessage
	case content.SyncError, content.SyncFallback:
		message = degradedMessage
	default:
		return interfaces.Notice{}, false
	}
	if meta.LastUpdated != nil {
		message += " (마지막 업데이트: " + content.FormatDate(*meta.LastUpdated) + ")"
	}
	return interfaces.Notice{
		Level:    interfaces.NoticeWarning,
		Message:  message,
		Duration: NoticeDuration,
	}, true
}
