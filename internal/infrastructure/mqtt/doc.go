// Package mqtt provides the broker connection for the HomeKit bridge.
//
// This package manages:
//   - Connection to the broker with auto-reconnect
//   - Fire-and-forget publishing of outbound characteristic values
//   - Exact-topic subscriptions, restored after every reconnect
//   - Last Will and Testament (LWT) on the bridge status topic
//
// # Delivery
//
// Paho is configured with ordered delivery, so handlers run one at a time
// in arrival order. A slow handler delays every message behind it.
//
// Publishes while disconnected fail with ErrNotConnected; nothing is
// queued or replayed after reconnection.
//
// # Usage
//
//	client := mqtt.New(cfg.MQTT)
//	if err := client.Connect(ctx); err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	err := client.Subscribe("stat/lamp/POWER", 0,
//	    func(topic string, payload []byte) error {
//	        return b.Dispatch(topic, payload)
//	    })
//
//	client.PublishAsync("cmnd/lamp/POWER", []byte("ON"), 0, false)
package mqtt
