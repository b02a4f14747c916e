package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"mercadito/internal/model"

	"github.com/rs/zerolog/log"
)

const (
	QueueNotificaciones = "jobs:notificaciones"

	JobPedidoNuevo = "pedido_nuevo"

	// MaxAttempts is how many times a job runs before it goes to the DLQ.
	MaxAttempts = 3

	popTimeout = 5 * time.Second
)

// Job is the generic envelope for all async tasks.
type Job struct {
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Attempts int             `json:"attempts"`
}

// Handler processes one job payload. A returned error schedules a retry.
type Handler interface {
	Process(ctx context.Context, payload json.RawMessage) error
}

// Dispatcher enqueues async jobs. It implements service.Notificador.
type Dispatcher struct {
	queue Queue
}

func NewDispatcher(queue Queue) *Dispatcher {
	return &Dispatcher{queue: queue}
}

// PedidoNuevoPayload is what the notification worker needs to describe an order.
type PedidoNuevoPayload struct {
	PedidoID      string `json:"pedido_id"`
	ClienteNombre string `json:"cliente_nombre"`
	Telefono      string `json:"telefono"`
	Direccion     string `json:"direccion"`
	MetodoPago    string `json:"metodo_pago"`
	Total         string `json:"total"`
	Items         int    `json:"items"`
	CreatedAt     string `json:"created_at"`
}

func (d *Dispatcher) NotificarPedidoNuevo(ctx context.Context, p *model.Pedido) error {
	return d.enqueue(ctx, QueueNotificaciones, JobPedidoNuevo, PedidoNuevoPayload{
		PedidoID:      p.ID.String(),
		ClienteNombre: p.ClienteNombre,
		Telefono:      p.ClienteTelefono,
		Direccion:     p.ClienteDireccion,
		MetodoPago:    p.MetodoPago,
		Total:         p.Total.StringFixed(2),
		Items:         len(p.Items),
		CreatedAt:     p.CreatedAt.Format(time.RFC3339),
	})
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	encoded, err := json.Marshal(Job{Type: jobType, Payload: data})
	if err != nil {
		return err
	}
	return d.queue.Push(ctx, queue, encoded)
}

// Pool consumes queues with a fixed number of goroutines.
type Pool struct {
	queue    Queue
	handlers map[string]Handler
	queues   map[string]string // job type → queue
}

func NewPool(queue Queue) *Pool {
	return &Pool{
		queue:    queue,
		handlers: make(map[string]Handler),
		queues:   make(map[string]string),
	}
}

// Register binds a job type read from queue to h.
func (p *Pool) Register(queue, jobType string, h Handler) {
	p.handlers[jobType] = h
	p.queues[jobType] = queue
}

// Start launches numWorkers goroutines. Each blocks on Pop; zero CPU when idle.
func (p *Pool) Start(ctx context.Context, numWorkers int) {
	var queues []string
	seen := make(map[string]bool)
	for _, q := range p.queues {
		if !seen[q] {
			seen[q] = true
			queues = append(queues, q)
		}
	}
	if len(queues) == 0 {
		log.Warn().Msg("worker pool: no handlers registered")
		return
	}
	for i := 0; i < numWorkers; i++ {
		go p.run(ctx, i, queues)
	}
	log.Info().Int("workers", numWorkers).Strs("queues", queues).Msg("worker pool started")
}

func (p *Pool) run(ctx context.Context, id int, queues []string) {
	for {
		if ctx.Err() != nil {
			log.Info().Int("worker", id).Msg("worker shutting down")
			return
		}
		queue, raw, err := p.queue.Pop(ctx, popTimeout, queues...)
		if errors.Is(err, ErrEmpty) {
			continue
		}
		if err != nil {
			if ctx.Err() == nil {
				log.Error().Err(err).Int("worker", id).Msg("worker: pop failed")
				time.Sleep(time.Second)
			}
			continue
		}
		p.processJob(ctx, queue, raw)
	}
}

// processJob runs one job. Failures are pushed back with Attempts+1 until
// MaxAttempts, then moved to the dead letter queue.
func (p *Pool) processJob(ctx context.Context, queue string, raw []byte) {
	var job Job
	if err := json.Unmarshal(raw, &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("worker: invalid job envelope")
		SendToDLQ(ctx, p.queue, queue, "", raw, "invalid envelope: "+err.Error(), 0)
		return
	}
	h, ok := p.handlers[job.Type]
	if !ok {
		SendToDLQ(ctx, p.queue, queue, job.Type, job.Payload, "no handler for job type", job.Attempts)
		return
	}

	err := h.Process(ctx, job.Payload)
	if err == nil {
		return
	}

	job.Attempts++
	if job.Attempts >= MaxAttempts {
		SendToDLQ(ctx, p.queue, queue, job.Type, job.Payload,
			fmt.Sprintf("max attempts (%d) exceeded: %v", MaxAttempts, err), job.Attempts)
		return
	}
	log.Warn().Err(err).Str("type", job.Type).Int("attempts", job.Attempts).Msg("worker: job failed, requeued")
	encoded, mErr := json.Marshal(job)
	if mErr != nil {
		log.Error().Err(mErr).Msg("worker: re-encode job")
		return
	}
	if pErr := p.queue.Push(ctx, queue, encoded); pErr != nil {
		log.Error().Err(pErr).Str("queue", queue).Msg("worker: requeue failed")
	}
}
