// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package notify delivers best-effort notifications off the request path.

A Dispatcher owns a buffered queue drained by a small errgroup worker pool:

	d := notify.NewDispatcher(sink, cfg.NotifyQueueSize, 2)
	defer d.Close()
	d.Enqueue(notify.Event{Kind: notify.KindFirstVote, ...})

Enqueue never blocks: when the queue is full the event is dropped with a
warning. Delivery failures are logged and swallowed. Close drains the queue
and waits for in-flight deliveries.

The Sink interface abstracts the delivery channel; LogSink, the default,
writes structured log lines and stands in until a push gateway exists.
*/
package notify
