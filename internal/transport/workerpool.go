package transport

import (
	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"
)

const taskChanSize = 100

type workerFunc = func(t *tomb.Tomb, task any) error

// workerPool is a fixed-size pool of connection-handling goroutines,
// supervised by a tomb.Tomb so the whole pool winds down together when the
// server is asked to shut down.
type workerPool struct {
	n     int
	tasks chan any
}

func newWorkerPool(size int) *workerPool {
	return &workerPool{n: size, tasks: make(chan any, taskChanSize)}
}

// submit hands a task (a net.Conn, in this package) to the pool. It blocks
// if every worker is busy and the task channel is full.
func (p *workerPool) submit(task any) { p.tasks <- task }

// run starts the pool's workers under t and blocks until t is dying.
func (p *workerPool) run(t *tomb.Tomb, work workerFunc) {
	log.Info().Int("workers", p.n).Msg("starting worker pool")
	for i := 0; i < p.n; i++ {
		t.Go(func() error { return p.worker(t, work) })
	}
	<-t.Dying()
}

func (p *workerPool) worker(t *tomb.Tomb, work workerFunc) error {
	for {
		select {
		case <-t.Dying():
			return nil
		case task := <-p.tasks:
			if err := work(t, task); err != nil {
				log.Error().Err(err).Msg("worker task failed")
			}
		}
	}
}
