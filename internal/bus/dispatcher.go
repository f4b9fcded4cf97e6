package bus

import (
	"context"
	"errors"
	"hash/fnv"
	"sync"

	"WellnessHub/internal/interfaces"
)

// ErrClosed 总线或订阅已关闭
var ErrClosed = errors.New("bus: closed")

// PartitionFor 按消息 key 选择分区；同一 key 总落在同一分区
func PartitionFor(key string, partitions int) int {
	if partitions <= 1 {
		return 0
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(partitions))
}

// delivery 一次投递；settle 在处理结束后由 worker 调用（可为空）
type delivery struct {
	msg    interfaces.Message
	settle func(err error)
}

// dispatcher 分区 worker 池：不同 key 并行处理，同一 key 严格串行
type dispatcher struct {
	queues []chan delivery
	handle func(ctx context.Context, msg interfaces.Message) error

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func newDispatcher(partitions, buffer int, handle func(ctx context.Context, msg interfaces.Message) error) *dispatcher {
	if partitions <= 0 {
		partitions = 1
	}
	if buffer <= 0 {
		buffer = 256
	}
	ctx, cancel := context.WithCancel(context.Background())
	d := &dispatcher{
		queues: make([]chan delivery, partitions),
		handle: handle,
		ctx:    ctx,
		cancel: cancel,
	}
	for i := range d.queues {
		q := make(chan delivery, buffer)
		d.queues[i] = q
		d.wg.Add(1)
		go d.run(q)
	}
	return d
}

func (d *dispatcher) run(q chan delivery) {
	defer d.wg.Done()
	for {
		select {
		case <-d.ctx.Done():
			return
		case dl := <-q:
			err := d.handle(d.ctx, dl.msg)
			if dl.settle != nil {
				dl.settle(err)
			}
		}
	}
}

// dispatch 投递到 key 对应分区；队列满时阻塞直到 ctx 结束或 dispatcher 关闭
func (d *dispatcher) dispatch(ctx context.Context, msg interfaces.Message, settle func(err error)) error {
	q := d.queues[PartitionFor(msg.Key, len(d.queues))]
	select {
	case q <- delivery{msg: msg, settle: settle}:
		return nil
	case <-d.ctx.Done():
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// stop 停止全部 worker 并等待当前消息处理完成
func (d *dispatcher) stop() {
	d.cancel()
	d.wg.Wait()
}
