package graceful

import "context"

// Gracefully 可优雅停止的组件
type Gracefully interface {
	GracefulStop(ctx context.Context) error
}
