package obs

import (
	"log"
	"time"
)

// Time logs how long a named operation took, and the error it ended
// with if any. Use as: defer obs.Time("compute")(&err).
func Time(op string) func(errp *error) {
	start := time.Now()

	return func(errp *error) {
		dur := time.Since(start)

		if errp != nil && *errp != nil {
			log.Printf("op=%s dur=%dms err=%v", op, dur.Milliseconds(), *errp)
			return
		}
		log.Printf("op=%s dur=%dms", op, dur.Milliseconds())
	}
}
