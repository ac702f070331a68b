package widget

import (
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
)

var widgetSequence atomic.Uint64

// IDSource hands out container ids for quizzes whose markup carried none.
// Uniqueness across the process lifetime comes from a monotonic counter; the
// random suffix keeps ids distinct across separately generated pages.
type IDSource func() string

func DefaultIDSource() string {
	seq := widgetSequence.Add(1)
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return "quiz-" + strconv.FormatUint(seq, 10) + "-" + suffix
}
