package cache

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// LoadGroup 合并同一 key 的并发加载。共享的加载运行在脱离调用方取消信号的
// context 中，每个调用方只按自己的 ctx 等待结果；最后一个等待者放弃时才取消共享加载。
type LoadGroup struct {
	group singleflight.Group

	mu      sync.Mutex
	flights map[string]*flight
}

type flight struct {
	ctx     context.Context
	cancel  context.CancelFunc
	waiters int
}

// Do 执行或加入 key 对应的加载。ctx 结束时立即返回 ctx.Err()，不影响其它等待者。
func (g *LoadGroup) Do(ctx context.Context, key string, fn func(ctx context.Context) (interface{}, error)) (interface{}, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	f := g.join(ctx, key)

	ch := g.group.DoChan(key, func() (interface{}, error) {
		return fn(f.ctx)
	})

	select {
	case res := <-ch:
		g.leave(key, f, false)
		return res.Val, res.Err
	case <-ctx.Done():
		g.leave(key, f, true)
		return nil, ctx.Err()
	}
}

func (g *LoadGroup) join(ctx context.Context, key string) *flight {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.flights == nil {
		g.flights = make(map[string]*flight)
	}
	f, ok := g.flights[key]
	if !ok {
		// 保留 ctx 中的值（如日志字段），去掉取消与截止时间。
		workCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		f = &flight{ctx: workCtx, cancel: cancel}
		g.flights[key] = f
	}
	f.waiters++
	return f
}

func (g *LoadGroup) leave(key string, f *flight, abandoned bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	f.waiters--
	if f.waiters > 0 {
		return
	}
	if g.flights[key] == f {
		delete(g.flights, key)
	}
	if abandoned {
		// 已取消的加载不能再被新的调用方加入。
		g.group.Forget(key)
	}
	f.cancel()
}
