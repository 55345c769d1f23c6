package async

import "context"

type Task func()

// AsyncHandler 异步任务执行器, 提交方不等待结果
type AsyncHandler interface {
	Submit(task Task) error

	Shutdown(ctx context.Context) error
}
