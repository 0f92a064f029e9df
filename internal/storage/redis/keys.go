package redis

// inflightKey returns the Redis key for a client's in-flight lock
func (s *Storage) inflightKey(clientID string) string {
	return s.cfg.KeyPrefix + ":inflight:" + clientID
}
