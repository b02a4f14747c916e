package worker

// notificacion_worker.go
// Processes pedido_nuevo jobs: e-mails the staff address through SMTP,
// guarded by a circuit breaker so a dead relay fails fast.

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"mercadito/internal/infra"

	"github.com/rs/zerolog/log"
)

// Sender is the mail transport. *infra.Mailer satisfies it.
type Sender interface {
	Send(to, subject, body string) error
}

type NotificacionWorker struct {
	sender  Sender
	breaker *infra.CircuitBreaker
	destino string
}

func NewNotificacionWorker(sender Sender, breaker *infra.CircuitBreaker, destino string) *NotificacionWorker {
	return &NotificacionWorker{sender: sender, breaker: breaker, destino: destino}
}

func (w *NotificacionWorker) Process(_ context.Context, raw json.RawMessage) error {
	var p PedidoNuevoPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		// retrying cannot fix a malformed payload
		log.Error().Err(err).Msg("notificacion_worker: invalid payload")
		return nil
	}
	if w.destino == "" {
		log.Debug().Str("pedido_id", p.PedidoID).Msg("notificacion_worker: NOTIFY_EMAIL vacío, se omite")
		return nil
	}

	subject := fmt.Sprintf("Nuevo pedido de %s ($%s)", p.ClienteNombre, p.Total)
	body := cuerpoPedido(p)
	err := w.breaker.Execute(func() error {
		return w.sender.Send(w.destino, subject, body)
	})
	if err != nil {
		return fmt.Errorf("notificar pedido %s: %w", p.PedidoID, err)
	}
	log.Info().Str("pedido_id", p.PedidoID).Str("to", w.destino).Msg("notificacion_worker: aviso enviado")
	return nil
}

func cuerpoPedido(p PedidoNuevoPayload) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Pedido: %s\n", p.PedidoID)
	fmt.Fprintf(&b, "Cliente: %s\n", p.ClienteNombre)
	if p.Telefono != "" {
		fmt.Fprintf(&b, "Teléfono: %s\n", p.Telefono)
	}
	if p.Direccion != "" {
		fmt.Fprintf(&b, "Dirección: %s\n", p.Direccion)
	}
	if p.MetodoPago != "" {
		fmt.Fprintf(&b, "Pago: %s\n", p.MetodoPago)
	}
	fmt.Fprintf(&b, "Ítems: %d\nTotal: $%s\nRecibido: %s\n", p.Items, p.Total, p.CreatedAt)
	return b.String()
}
