package hst

import (
	"sync"

	"gonum.org/v1/gonum/mat"
)

//Task is one unit of work executed by a Pool worker.
type Task interface {
	Run()
}

//Pool is a fixed-size worker pool. Tasks are queued with AddTask, Close stops
//the intake and WaitAll blocks until every queued task has run.
type Pool struct {
	tasks chan Task
	wg    sync.WaitGroup
}

//NewPool starts threadsNum workers draining the task queue.
func NewPool(threadsNum int) *Pool {
	taskPool := &Pool{tasks: make(chan Task)}
	taskPool.wg.Add(threadsNum)
	for ind := 0; ind < threadsNum; ind++ {
		go func() {
			defer taskPool.wg.Done()
			for currentTask := range taskPool.tasks {
				currentTask.Run()
			}
		}()
	}
	return taskPool
}

//AddTask queues one task. It blocks until a worker is free to take it.
func (p *Pool) AddTask(task Task) {
	p.tasks <- task
}

//Close stops accepting tasks. AddTask must not be called afterwards.
func (p *Pool) Close() {
	close(p.tasks)
}

//WaitAll blocks until every worker has drained the queue and stopped.
func (p *Pool) WaitAll() {
	p.wg.Wait()
}

//TaskScoreRows scores one contiguous block of batch rows. Blocks of distinct
//tasks never overlap, so the destination matrix needs no locking.
type TaskScoreRows struct {
	forest     *HalfSpaceForest
	data, dst  *mat.Dense
	begin, end int
}

//Run implements Task.
func (t *TaskScoreRows) Run() {
	scoreRows(t.forest, t.data, t.dst, t.begin, t.end)
}
