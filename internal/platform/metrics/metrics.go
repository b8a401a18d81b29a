// Copyright (c) 2026 Wayfare. All rights reserved.
// Author: platform-team@wayfare.app

// Package metrics exposes Prometheus counters for the security pipeline.
//
// # Scope
//
// Only the subsystem's own signals are counted here: gate rejections by
// reason and audit-sink write outcomes. General HTTP metrics are left to the
// ingress layer.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Gate label values.
const (
	GateAuthentication = "authentication"
	GateAuthorization  = "authorization"
)

// Audit write outcomes.
const (
	AuditOutcomeOK     = "ok"
	AuditOutcomeFailed = "failed"
)

var (
	gateRejections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wayfare_gate_rejections_total",
			Help: "Requests rejected by the authentication/authorization gates.",
		},
		[]string{"gate", "reason"},
	)

	auditWrites = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wayfare_audit_writes_total",
			Help: "Audit log persistence attempts by outcome.",
		},
		[]string{"outcome"},
	)
)

// Init registers the subsystem metrics with the default registry. Call once
// at startup.
func Init() {
	prometheus.MustRegister(gateRejections, auditWrites)
}

// Handler returns the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// GateRejected records one gate rejection with its taxonomy reason code.
func GateRejected(gate, reason string) {
	gateRejections.WithLabelValues(gate, reason).Inc()
}

// AuditWrite records one audit persistence attempt.
func AuditWrite(outcome string) {
	auditWrites.WithLabelValues(outcome).Inc()
}
