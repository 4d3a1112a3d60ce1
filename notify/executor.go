package notify

import (
	"sync"

	"github.com/d3ce1t/areyouin-events/logger"
)

const TASK_EXECUTOR_QUEUE_SIZE = 100

type Task func()

// TaskExecutor runs tasks one at a time on its own goroutine. The dispatcher
// uses it to show fallback prompts without holding up a reminder pass.
type TaskExecutor struct {
	queue    chan Task
	stop     chan struct{}
	wg       sync.WaitGroup
	stopOnce sync.Once
}

func NewTaskExecutor() *TaskExecutor {
	return &TaskExecutor{
		queue: make(chan Task, TASK_EXECUTOR_QUEUE_SIZE),
		stop:  make(chan struct{}),
	}
}

// Submit queues task. It returns false when the executor is stopped or the
// queue is full.
func (ex *TaskExecutor) Submit(task Task) bool {
	select {
	case <-ex.stop:
		return false
	default:
	}
	select {
	case ex.queue <- task:
		return true
	default:
		logger.LogW("TaskExecutor: queue full, task dropped")
		return false
	}
}

func (ex *TaskExecutor) Start() {
	ex.wg.Add(1)
	go func() {
		defer ex.wg.Done()
		exit := false
		for !exit {
			exit = ex.run()
		}
	}()
}

// Stop ends the loop once the running task returns. Queued tasks are dropped.
func (ex *TaskExecutor) Stop() {
	ex.stopOnce.Do(func() {
		close(ex.stop)
	})
	ex.wg.Wait()
}

func (ex *TaskExecutor) run() (exit bool) {

	defer func() {
		if r := recover(); r != nil {
			if err, ok := r.(error); ok {
				logger.LogEf("TaskExecutor Run Error: %v", err)
			} else {
				logger.LogEf("TaskExecutor Run Panic: %v", r)
			}
			exit = false
		}
	}()

	for {
		select {
		case <-ex.stop:
			return true
		case task := <-ex.queue:
			task()
		}
	}
}
