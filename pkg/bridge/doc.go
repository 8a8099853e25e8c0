// Package bridge connects a hub emulator to Redis.
//
// A Bridge keeps Redis hashes in step with the hub (connection state,
// button, battery, alerts and the buffer state of every port) and runs
// operator commands that other processes push onto a Redis list:
//
//	client, err := bridge.Dial(ctx, "localhost:6379", "", 0)
//	b, err := bridge.New(bridge.Config{Store: client, Status: h.Status, Exec: exec})
//	go b.Run(ctx)
//
// From a shell:
//
//	redis-cli HGETALL lwp:hub:ports
//	redis-cli LPUSH lwp:hub:commands "button click"
package bridge
