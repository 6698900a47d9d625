package pool_test

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/vnykmshr/taskpool/pkg/pool"
)

// Example demonstrates basic usage of the worker pool
func Example() {
	// Create a worker pool with 3 workers and queue capacity 10
	p, err := pool.New(3, 10)
	if err != nil {
		log.Fatal(err)
	}

	job := pool.JobFunc(func(ctx context.Context) error {
		fmt.Println("Job executed")
		return nil
	})

	if err := p.Submit(job); err != nil {
		log.Printf("Failed to submit job: %v", err)
	}

	// Shutdown drains the queue before the workers exit
	<-p.Shutdown()

	// Output: Job executed
}

// Example_imageResizer demonstrates fanning a batch of work across workers
func Example_imageResizer() {
	p, err := pool.New(4, 20)
	if err != nil {
		log.Fatal(err)
	}

	images := []string{"a.png", "b.png", "c.png", "d.png", "e.png"}
	var resized atomic.Int32

	for _, name := range images {
		name := name
		job := pool.JobFunc(func(ctx context.Context) error {
			// Simulate resizing
			_ = name
			time.Sleep(5 * time.Millisecond)
			resized.Add(1)
			return nil
		})
		if err := p.Submit(job); err != nil {
			log.Printf("submit %s: %v", name, err)
		}
	}

	<-p.Shutdown()
	fmt.Printf("resized %d images\n", resized.Load())

	// Output: resized 5 images
}

// Example_panicHandler demonstrates surviving a misbehaving job
func Example_panicHandler() {
	p, err := pool.NewWithConfig(pool.Config{
		Workers:   1,
		QueueSize: 4,
		PanicHandler: func(job pool.Job, recovered any) {
			fmt.Printf("recovered: %v\n", recovered)
		},
	})
	if err != nil {
		log.Fatal(err)
	}

	_ = p.Submit(pool.JobFunc(func(ctx context.Context) error {
		panic("boom")
	}))
	_ = p.Submit(pool.JobFunc(func(ctx context.Context) error {
		fmt.Println("still running")
		return nil
	}))

	<-p.Shutdown()

	// Output:
	// recovered: boom
	// still running
}
