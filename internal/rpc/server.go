// Copyright 2025 Granary Authors
// SPDX-License-Identifier: Apache-2.0

// Package rpc exposes the farming engine to other processes over JSON-RPC
// and submits granted credits to an external ledger endpoint.
package rpc

import (
	"net/http"

	gorillarpc "github.com/gorilla/rpc"
	gorillajson "github.com/gorilla/rpc/json"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/dotandev/granary/internal/draw"
	"github.com/dotandev/granary/internal/farming"
	"github.com/dotandev/granary/internal/logger"
)

// StateArgs is the wire form of a RateState snapshot.
type StateArgs struct {
	TotalIssued uint64  `json:"total_issued"`
	SupplyCap   uint64  `json:"supply_cap"`
	Utilization float64 `json:"utilization"`
}

func (a StateArgs) toState() farming.RateState {
	return farming.RateState{
		TotalIssued: farming.Amount(a.TotalIssued),
		SupplyCap:   farming.Amount(a.SupplyCap),
		Utilization: a.Utilization,
	}
}

// RateArgs requests the current farming rate.
type RateArgs struct {
	State StateArgs `json:"state"`
}

// RateReply carries the computed rate.
type RateReply struct {
	Rate float64 `json:"rate"`
}

// QuoteArgs requests a store cost quote.
type QuoteArgs struct {
	State StateArgs `json:"state"`
}

// QuoteReply carries the quoted cost.
type QuoteReply struct {
	Cost uint64 `json:"cost"`
}

// AttemptArgs describes one farming attempt. Exactly one of Draw and
// EventID must be set; with EventID the draw is derived verifiably.
type AttemptArgs struct {
	State   StateArgs `json:"state"`
	Age     uint64    `json:"age"`
	Draw    *float64  `json:"draw,omitempty"`
	EventID string    `json:"event_id,omitempty"`
}

// AttemptReply is the decision, plus the draw the decision was made with so
// callers can audit it.
type AttemptReply struct {
	Granted bool    `json:"granted"`
	Amount  uint64  `json:"amount"`
	NewAge  uint64  `json:"new_age"`
	Draw    float64 `json:"draw"`
}

// FarmingService is the JSON-RPC surface over the engine. The service is
// stateless: every call carries its own snapshot, so concurrent requests
// need no coordination.
type FarmingService struct {
	engine *farming.Engine
	tracer trace.Tracer
}

// NewFarmingService wraps an engine for RPC exposure.
func NewFarmingService(engine *farming.Engine) *FarmingService {
	return &FarmingService{
		engine: engine,
		tracer: otel.Tracer("granary/rpc"),
	}
}

// Rate returns the current farming rate for the supplied snapshot.
func (s *FarmingService) Rate(r *http.Request, args *RateArgs, reply *RateReply) error {
	_, span := s.tracer.Start(r.Context(), "FarmingService.Rate", trace.WithSpanKind(trace.SpanKindServer))
	defer span.End()

	if err := validateStateArgs(args.State); err != nil {
		return err
	}
	rate, err := s.engine.Calculator().FarmingRate(args.State.toState())
	if err != nil {
		return err
	}
	reply.Rate = rate
	span.SetAttributes(attribute.Float64("farming.rate", rate))
	return nil
}

// Quote returns the store cost for the supplied snapshot.
func (s *FarmingService) Quote(r *http.Request, args *QuoteArgs, reply *QuoteReply) error {
	_, span := s.tracer.Start(r.Context(), "FarmingService.Quote", trace.WithSpanKind(trace.SpanKindServer))
	defer span.End()

	if err := validateStateArgs(args.State); err != nil {
		return err
	}
	cost, err := s.engine.Calculator().StoreCost(args.State.toState())
	if err != nil {
		return err
	}
	reply.Cost = uint64(cost)
	return nil
}

// Attempt evaluates one farming attempt.
func (s *FarmingService) Attempt(r *http.Request, args *AttemptArgs, reply *AttemptReply) error {
	_, span := s.tracer.Start(r.Context(), "FarmingService.Attempt", trace.WithSpanKind(trace.SpanKindServer))
	defer span.End()

	if err := validateAttemptArgs(*args); err != nil {
		return err
	}
	d := 0.0
	if args.Draw != nil {
		d = *args.Draw
	} else {
		d = draw.FromEventString(args.EventID)
	}

	dec, err := s.engine.Attempt(farming.AgeCounter{Age: args.Age}, args.State.toState(), d)
	if err != nil {
		logger.Logger.Error("attempt rejected", "error", err)
		return err
	}

	reply.Granted = dec.Granted
	reply.Amount = uint64(dec.Amount)
	reply.NewAge = dec.NewAge
	reply.Draw = d
	span.SetAttributes(
		attribute.Bool("farming.granted", dec.Granted),
		attribute.Int64("farming.amount", int64(dec.Amount)),
	)
	return nil
}

// NewServer builds the HTTP handler serving the farming service at /rpc.
func NewServer(engine *farming.Engine) http.Handler {
	server := gorillarpc.NewServer()
	server.RegisterCodec(gorillajson.NewCodec(), "application/json")
	if err := server.RegisterService(NewFarmingService(engine), "Farming"); err != nil {
		// Registration only fails on a malformed service definition,
		// which is a programming error.
		panic(err)
	}

	mux := http.NewServeMux()
	mux.Handle("/rpc", server)
	return mux
}
