package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Task 是一次可调度的采集单元（采集器管道或突发监控）
type Task interface {
	Name() string
	Run(ctx context.Context) (int, error)
}

// Job 把任务与其独立的采集周期绑定：不同数据源按各自更新频率排期
type Job struct {
	Task     Task
	CronSpec string
}

type Scheduler struct {
	cron *cron.Cron
	jobs []Job
}

func New(jobs []Job) (*Scheduler, error) {
	c := cron.New()
	s := &Scheduler{cron: c, jobs: jobs}

	for _, j := range jobs {
		job := j
		if _, err := c.AddFunc(job.CronSpec, func() { s.runJob(job) }); err != nil {
			return nil, err
		}
	}

	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	// 延迟执行首轮采集，避免与进程其余的启动工作争抢资源
	const startupDelay = 15 * time.Second
	time.AfterFunc(startupDelay, func() {
		go s.RunAll()
	})
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
}

// RunAll 并发执行所有任务各一轮，供手动触发与 run-once 入口使用。
// 各采集器之间没有共享可变状态，存储与队列自身支持并发写入
func (s *Scheduler) RunAll() {
	log.Println("start collect job...")

	var wg sync.WaitGroup
	for _, j := range s.jobs {
		job := j
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.runJob(job)
		}()
	}
	wg.Wait()

	log.Println("collect job done (all sources)")
}

// runJob 执行单个任务一轮；失败只记日志，下一次排期就是恢复机制
func (s *Scheduler) runJob(job Job) {
	name := job.Task.Name()
	count, err := job.Task.Run(context.Background())
	if err != nil {
		log.Printf("run %s error: %v", name, err)
		return
	}
	log.Printf("%s cycle done, persisted=%d items", name, count)
}
