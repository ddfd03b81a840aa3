package upstream

import (
	"sync"

	"github.com/Amr-9/modelhost/internal/port"
	"github.com/Amr-9/modelhost/pkg/jobapi"
)

// Factories lazily constructs the four upstream client kinds a job's execution
// context may need (spec.md §3, §4.3): sensor, analysis, grid-read (via the
// client cache), and grid-upload. Once constructed, a client is a read-only
// reference (spec.md §5 "Shared-resource policy").
type Factories struct {
	sensorCfg     *jobapi.ServiceConfig
	analysisCfg   *jobapi.ServiceConfig
	gridReadCfg   *jobapi.ServiceConfig
	gridUploadCfg *jobapi.ServiceConfig
	streamSink    StreamModificationSink

	mu              sync.Mutex
	sensor          SensorClient
	sensorErr       error
	sensorBuilt     bool
	analysis        AnalysisClient
	analysisErr     error
	analysisBuilt   bool
	gridCache       *Cache
	gridUpload      port.GridClient
	gridUploadErr   error
	gridUploadBuilt bool
}

// NewFactories builds the lazy factory set from a job request's optional service
// configurations.
func NewFactories(req *jobapi.Request, streamSink StreamModificationSink) *Factories {
	return &Factories{
		sensorCfg:     req.SensorCloudConfiguration,
		analysisCfg:   req.AnalysisServicesConfiguration,
		gridReadCfg:   req.ThreddsConfiguration,
		gridUploadCfg: req.ThreddsUploadConfiguration,
		streamSink:    streamSink,
	}
}

// Sensor lazily constructs (once) the sensor client, wrapped in a side-effect
// observing proxy.
func (f *Factories) Sensor() (SensorClient, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sensorBuilt {
		return f.sensor, f.sensorErr
	}
	f.sensorBuilt = true

	baseURL, _, _, auth, verify, err := ResolveServiceConfig(f.sensorCfg)
	if err != nil {
		f.sensorErr = err
		return nil, err
	}
	inner := &restSensorClient{newHTTPClient(baseURL, auth, TransportOptions{VerifyTLS: verify})}
	f.sensor = WrapSensorClient(inner, f.streamSink)
	return f.sensor, nil
}

// Analysis lazily constructs (once) the analysis-services client.
func (f *Factories) Analysis() (AnalysisClient, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.analysisBuilt {
		return f.analysis, f.analysisErr
	}
	f.analysisBuilt = true

	baseURL, _, _, auth, verify, err := ResolveServiceConfig(f.analysisCfg)
	if err != nil {
		f.analysisErr = err
		return nil, err
	}
	f.analysis = &restAnalysisClient{newHTTPClient(baseURL, auth, TransportOptions{VerifyTLS: verify})}
	return f.analysis, nil
}

// GridCache returns the client cache backing every grid read port, building it
// (but not any individual client within it) on first use.
func (f *Factories) GridCache() port.ClientCache {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.gridCache == nil {
		_, _, _, auth, verify, _ := ResolveServiceConfig(f.gridReadCfg)
		f.gridCache = NewCache(auth, TransportOptions{VerifyTLS: verify})
	}
	return f.gridCache
}

// GridUploadClient lazily constructs (once) the default upload client used when a
// grid output port's Upload() call doesn't pass an explicit client.
func (f *Factories) GridUploadClient() (port.GridClient, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.gridUploadBuilt {
		return f.gridUpload, f.gridUploadErr
	}
	f.gridUploadBuilt = true

	cfg := f.gridUploadCfg
	if cfg == nil {
		cfg = f.gridReadCfg
	}
	baseURL, host, _, auth, verify, err := ResolveServiceConfig(cfg)
	if err != nil {
		f.gridUploadErr = err
		return nil, err
	}
	f.gridUpload = &gridClient{
		httpClient: newHTTPClient(baseURL, auth, TransportOptions{VerifyTLS: verify}),
		authority:  host,
	}
	return f.gridUpload, nil
}
