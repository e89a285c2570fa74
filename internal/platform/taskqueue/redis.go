package taskqueue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	DefaultKeyPrefix = "petvax:tasks:"
	promoteBatch     = 100

	// BLMOVE no acepta menos de 1s; por debajo se sondea.
	minBlock     = time.Second
	pollInterval = 50 * time.Millisecond
)

// Mueve a su lista las tareas diferidas ya vencidas. Atómico: un miembro no se promueve dos veces.
var promoteScript = redis.NewScript(`
local due = redis.call('ZRANGEBYSCORE', KEYS[1], '-inf', ARGV[1], 'LIMIT', 0, tonumber(ARGV[3]))
for _, raw in ipairs(due) do
  redis.call('ZREM', KEYS[1], raw)
  local t = cjson.decode(raw)
  redis.call('LPUSH', ARGV[2] .. 'queue:' .. t['queue'], raw)
end
return #due
`)

// Reserva la primera tarea disponible respetando el orden de KEYS[1..n-1]; KEYS[n] es la lista
// de procesamiento del consumer.
var claimScript = redis.NewScript(`
local processing = KEYS[#KEYS]
for i = 1, #KEYS - 1 do
  local raw = redis.call('LMOVE', KEYS[i], processing, 'RIGHT', 'LEFT')
  if raw then return raw end
end
return false
`)

// Devuelve a su cola las reservas de KEYS[1] si el heartbeat KEYS[2] ya no existe.
// Lo que no se puede decodificar va a la lista dead.
var recoverScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[2]) == 1 then return 0 end
local n = 0
while true do
  local raw = redis.call('RPOP', KEYS[1])
  if not raw then break end
  local ok, t = pcall(cjson.decode, raw)
  if ok and type(t) == 'table' and t['queue'] then
    redis.call('RPUSH', ARGV[1] .. 'queue:' .. t['queue'], raw)
    n = n + 1
  else
    redis.call('LPUSH', ARGV[1] .. 'dead', raw)
  end
end
return n
`)

// RedisBroker: una lista por cola (LPUSH + LMOVE RIGHT) más un ZSET de diferidas con score = run_at en ms.
// Cada consumer tiene su lista processing:<id>; la tarea sale de ahí con Ack (LREM).
type RedisBroker struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

type RedisBrokerOption func(*RedisBroker)

func WithKeyPrefix(p string) RedisBrokerOption {
	return func(b *RedisBroker) {
		if p != "" {
			b.prefix = p
		}
	}
}

func NewRedisBroker(client *redis.Client, opts ...RedisBrokerOption) *RedisBroker {
	b := &RedisBroker{client: client, prefix: DefaultKeyPrefix, now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

func (b *RedisBroker) queueKey(q string) string { return b.prefix + "queue:" + q }
func (b *RedisBroker) scheduledKey() string     { return b.prefix + "scheduled" }
func (b *RedisBroker) workerKey(id string) string {
	return b.prefix + "worker:" + id
}
func (b *RedisBroker) processingKey(consumer string) string {
	return b.prefix + "processing:" + consumer
}
func (b *RedisBroker) deadKey() string { return b.prefix + "dead" }

func (b *RedisBroker) Enqueue(ctx context.Context, t Task) error {
	if !validQueue(t.Queue) {
		return fmt.Errorf("%w: %q", ErrUnknownQueue, t.Queue)
	}
	raw, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("marshal task: %w", err)
	}

	if t.RunAt.After(b.now()) {
		return b.client.ZAdd(ctx, b.scheduledKey(), redis.Z{
			Score:  float64(t.RunAt.UnixMilli()),
			Member: string(raw),
		}).Err()
	}
	return b.client.LPush(ctx, b.queueKey(t.Queue), raw).Err()
}

func (b *RedisBroker) Dequeue(ctx context.Context, consumer string, queues []string, wait time.Duration) (Task, bool, error) {
	if len(queues) == 0 {
		return Task{}, false, nil
	}
	keys := make([]string, 0, len(queues)+1)
	for _, q := range queues {
		keys = append(keys, b.queueKey(q))
	}
	processing := b.processingKey(consumer)
	keys = append(keys, processing)

	// La espera es tiempo real; b.now solo decide qué diferidas ya vencieron.
	deadline := time.Now().Add(wait)
	for {
		if err := b.promote(ctx); err != nil {
			return Task{}, false, err
		}

		raw, err := claimScript.Run(ctx, b.client, keys).Text()
		if err != nil && !errors.Is(err, redis.Nil) {
			return Task{}, false, fmt.Errorf("claim task: %w", err)
		}

		remaining := time.Until(deadline)
		if raw == "" && remaining >= minBlock {
			// Bloquea sobre la cola prioritaria; las demás se revisan en la próxima vuelta.
			block := min(remaining, DefaultPollWait).Truncate(time.Second)
			raw, err = b.client.BLMove(ctx, keys[0], processing, "RIGHT", "LEFT", block).Result()
			if err != nil && !errors.Is(err, redis.Nil) {
				return Task{}, false, err
			}
		}

		if raw != "" {
			return b.decodeClaimed(ctx, processing, raw)
		}
		if remaining <= 0 {
			return Task{}, false, nil
		}
		if remaining < minBlock {
			timer := time.NewTimer(min(remaining, pollInterval))
			select {
			case <-ctx.Done():
				timer.Stop()
				return Task{}, false, ctx.Err()
			case <-timer.C:
			}
		}
	}
}

// decodeClaimed convierte la reserva en Task. Un JSON inválido se mueve a dead y se reporta.
func (b *RedisBroker) decodeClaimed(ctx context.Context, processing, raw string) (Task, bool, error) {
	var t Task
	if err := json.Unmarshal([]byte(raw), &t); err != nil {
		_, perr := b.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.LPush(ctx, b.deadKey(), raw)
			p.LRem(ctx, processing, 1, raw)
			return nil
		})
		if perr != nil {
			return Task{}, false, fmt.Errorf("%w: %v (dead-letter failed: %v)", ErrMalformedTask, err, perr)
		}
		return Task{}, false, fmt.Errorf("%w: %v", ErrMalformedTask, err)
	}
	t.raw = raw
	return t, true, nil
}

func (b *RedisBroker) Ack(ctx context.Context, consumer string, t Task) error {
	raw := t.raw
	if raw == "" {
		enc, err := json.Marshal(t)
		if err != nil {
			return fmt.Errorf("marshal task: %w", err)
		}
		raw = string(enc)
	}
	return b.client.LRem(ctx, b.processingKey(consumer), 1, raw).Err()
}

// RecoverOrphans recorre processing:* y re-encola las de consumers cuyo heartbeat expiró.
func (b *RedisBroker) RecoverOrphans(ctx context.Context) (int, error) {
	prefix := b.processingKey("")
	total := 0
	iter := b.client.Scan(ctx, 0, prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		consumer := strings.TrimPrefix(key, prefix)
		n, err := recoverScript.Run(ctx, b.client, []string{key, b.workerKey(consumer)}, b.prefix).Int()
		if err != nil {
			return total, fmt.Errorf("recover %s: %w", consumer, err)
		}
		total += n
	}
	if err := iter.Err(); err != nil {
		return total, err
	}
	return total, nil
}

func (b *RedisBroker) promote(ctx context.Context) error {
	now := strconv.FormatInt(b.now().UnixMilli(), 10)
	err := promoteScript.Run(ctx, b.client, []string{b.scheduledKey()}, now, b.prefix, promoteBatch).Err()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("promote scheduled tasks: %w", err)
	}
	return nil
}

func (b *RedisBroker) Heartbeat(ctx context.Context, workerID string, ttl time.Duration) error {
	return b.client.Set(ctx, b.workerKey(workerID), b.now().UTC().Format(time.RFC3339), ttl).Err()
}

func (b *RedisBroker) LiveWorkers(ctx context.Context) (int, error) {
	n := 0
	iter := b.client.Scan(ctx, 0, b.workerKey("*"), 100).Iterator()
	for iter.Next(ctx) {
		n++
	}
	if err := iter.Err(); err != nil {
		return 0, err
	}
	return n, nil
}

func (b *RedisBroker) Ping(ctx context.Context) error {
	return b.client.Ping(ctx).Err()
}
