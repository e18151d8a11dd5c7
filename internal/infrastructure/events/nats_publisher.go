// Package events publica eventos de dominio en NATS.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/jhoicas/lotetracker/internal/application/ports"
	"github.com/jhoicas/lotetracker/internal/domain/entity"
)

var _ ports.LotEventPublisher = (*NATSPublisher)(nil)

// LotRegisteredEvent cuerpo publicado en NATS_SUBJECT al registrar un lote.
type LotRegisteredEvent struct {
	ID           string    `json:"id"`
	ProductType  string    `json:"producto"`
	Quantity     string    `json:"cantidad"`
	Initial      string    `json:"cantidad_inicial"`
	Supplier     string    `json:"proveedor"`
	OperatorName string    `json:"operador"`
	OperatorCode string    `json:"codigo_operador"`
	Status       string    `json:"estado"`
	Date         string    `json:"fecha"`
	CreatedAt    time.Time `json:"created_at"`
}

type publisher interface {
	Publish(subject string, data []byte) error
}

// NATSPublisher publica sin confirmación (core NATS): el evento es informativo y su pérdida
// no afecta al registro.
type NATSPublisher struct {
	pub     publisher
	subject string
	conn    *nats.Conn
}

// Connect abre la conexión con reconexión indefinida. Un servidor caído al arrancar no es fatal.
func Connect(url, subject, clientName string, log zerolog.Logger) (*NATSPublisher, error) {
	log = log.With().Str("component", "nats").Logger()
	conn, err := nats.Connect(url,
		nats.Name(clientName),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Warn().Err(err).Msg("desconectado de NATS")
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.Info().Str("url", c.ConnectedUrl()).Msg("reconectado a NATS")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("conectar NATS: %w", err)
	}
	return &NATSPublisher{pub: conn, subject: subject, conn: conn}, nil
}

// PublishLotRegistered serializa el lote y lo publica.
func (p *NATSPublisher) PublishLotRegistered(ctx context.Context, lot *entity.Lot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(NewLotRegisteredEvent(lot))
	if err != nil {
		return fmt.Errorf("serializar evento: %w", err)
	}
	if err := p.pub.Publish(p.subject, data); err != nil {
		return fmt.Errorf("publicar %s: %w", p.subject, err)
	}
	return nil
}

// Close vacía los mensajes pendientes y cierra la conexión.
func (p *NATSPublisher) Close() {
	if p.conn != nil {
		_ = p.conn.Drain()
	}
}

// NewLotRegisteredEvent construye el cuerpo del evento.
func NewLotRegisteredEvent(lot *entity.Lot) LotRegisteredEvent {
	return LotRegisteredEvent{
		ID:           lot.ID,
		ProductType:  lot.ProductType,
		Quantity:     lot.Quantity,
		Initial:      lot.InitialQuantity.String(),
		Supplier:     lot.Supplier,
		OperatorName: lot.OperatorName,
		OperatorCode: lot.OperatorCode,
		Status:       string(lot.Status),
		Date:         lot.Date,
		CreatedAt:    lot.CreatedAt,
	}
}
