/*
Package monitoring provides metrics collection for the terminal backend.

# Overview

This package implements Prometheus-based metrics collection, tracking HTTP
requests, live shell sessions, keystrokes, executed commands, arcade games,
content reloads, storage failures, and WebSocket traffic.

# Usage

	// Create metrics collector
	metrics := monitoring.NewMetrics(prometheus.DefaultRegisterer)

	// Add middleware to Gin router
	router.Use(monitoring.Middleware(metrics))

	// Record shell activity
	metrics.RecordCommand("ls", "ok")
	metrics.RecordKeystroke("normal")

# Metrics Endpoint

Expose metrics via the standard Prometheus endpoint:

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
*/
package monitoring
