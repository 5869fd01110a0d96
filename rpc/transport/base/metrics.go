package base

import (
	"fmt"

	"github.com/VictoriaMetrics/metrics"
)

// termination reasons of a connection handler, used as metric label and log text
const (
	reasonEOF       = "eof"
	reasonRecvError = "recv_error"
	reasonSendError = "send_error"
	reasonUpgrade   = "upgrade_error"
	reasonEnd       = "end"
	reasonQuit      = "quit"
	reasonShutdown  = "shutdown"
)

var (
	acceptedTotal     = metrics.NewCounter("dcomm_listener_accepted_total")
	acceptErrorsTotal = metrics.NewCounter("dcomm_listener_accept_errors_total")
	handlersActive    = metrics.NewCounter("dcomm_listener_handlers_active")
	processDuration   = metrics.NewHistogram("dcomm_listener_process_duration_seconds")

	connectsTotal        = metrics.NewCounter("dcomm_connector_connects_total")
	connectFailuresTotal = metrics.NewCounter("dcomm_connector_connect_failures_total")
)

// messagesSent returns the counter of messages written by role (listener, connector)
func messagesSent(role string) *metrics.Counter {
	return metrics.GetOrCreateCounter(fmt.Sprintf(`dcomm_messages_sent_total{role=%q}`, role))
}

// messagesReceived returns the counter of messages read by role (listener, connector)
func messagesReceived(role string) *metrics.Counter {
	return metrics.GetOrCreateCounter(fmt.Sprintf(`dcomm_messages_received_total{role=%q}`, role))
}

// handlerTerminations counts finished connection handlers by reason
func handlerTerminations(reason string) *metrics.Counter {
	return metrics.GetOrCreateCounter(fmt.Sprintf(`dcomm_listener_handler_terminations_total{reason=%q}`, reason))
}
