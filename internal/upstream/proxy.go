package upstream

import "context"

// StreamModificationSink receives a notification whenever a proxied upstream call
// mutates a stream out from under the port model (spec.md §4.3 "Upstream-client
// proxies").
type StreamModificationSink interface {
	RecordStreamModification(streamID string)
}

// sensorProxy wraps a SensorClient purely to observe side effects: creating
// observations on a stream marks that stream as modified, exactly as the
// original implementation's _SCApiProxy does. It preserves the wrapped client's
// full contract.
type sensorProxy struct {
	inner SensorClient
	sink  StreamModificationSink
}

// WrapSensorClient returns a SensorClient that forwards every call to inner and
// additionally records the target stream as modified on success.
func WrapSensorClient(inner SensorClient, sink StreamModificationSink) SensorClient {
	return &sensorProxy{inner: inner, sink: sink}
}

func (p *sensorProxy) CreateObservations(ctx context.Context, streamID string, body []byte) error {
	if err := p.inner.CreateObservations(ctx, streamID, body); err != nil {
		return err
	}
	if p.sink != nil {
		p.sink.RecordStreamModification(streamID)
	}
	return nil
}
