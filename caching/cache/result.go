package cache

// Kind classifies how a cache call ended.
type Kind int

const (
	KindMiss Kind = iota
	KindHit
	KindComputed
	// KindUnavailable means the store was unconfigured or unreachable.
	KindUnavailable
	// KindFailed means the compute function or the call's options failed.
	KindFailed
)

func (k Kind) String() string {
	switch k {
	case KindMiss:
		return "miss"
	case KindHit:
		return "hit"
	case KindComputed:
		return "computed"
	case KindUnavailable:
		return "unavailable"
	case KindFailed:
		return "failed"
	default:
		return "unknown"
	}
}

type Result[T any] struct {
	Data      T
	FromCache bool
	Kind      Kind
	Err       error
}

// Success reports whether Data holds a usable value.
func (r Result[T]) Success() bool {
	return r.Kind == KindHit || r.Kind == KindComputed
}
