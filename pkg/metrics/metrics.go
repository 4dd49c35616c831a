/*
Copyright 2023 The Nuclio Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package metrics

import (
	"net/http"

	"github.com/nuclio/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	ResultSuccess  = "success"
	ResultFailure  = "failure"
	ResultNotFound = "not_found"
)

// Recorder keeps the storage server counters in a registry of its own
type Recorder struct {
	registry           *prometheus.Registry
	uploadsTotal       *prometheus.CounterVec
	downloadsTotal     *prometheus.CounterVec
	countedBytesTotal  prometheus.Counter
	streamedBytesTotal prometheus.Counter
}

func NewRecorder(instanceName string) (*Recorder, error) {
	labels := prometheus.Labels{
		"instance": instanceName,
	}

	newRecorder := &Recorder{
		registry: prometheus.NewRegistry(),
		uploadsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "deepatlantic_uploads_total",
			Help:        "Total number of counted uploads",
			ConstLabels: labels,
		}, []string{"result"}),
		downloadsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "deepatlantic_downloads_total",
			Help:        "Total number of reconstruction requests",
			ConstLabels: labels,
		}, []string{"result"}),
		countedBytesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "deepatlantic_counted_bytes_total",
			Help:        "Total number of bytes run through the bit counter",
			ConstLabels: labels,
		}),
		streamedBytesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "deepatlantic_streamed_bytes_total",
			Help:        "Total number of reconstructed bytes sent",
			ConstLabels: labels,
		}),
	}

	for _, collector := range []prometheus.Collector{
		newRecorder.uploadsTotal,
		newRecorder.downloadsTotal,
		newRecorder.countedBytesTotal,
		newRecorder.streamedBytesTotal,
	} {
		if err := newRecorder.registry.Register(collector); err != nil {
			return nil, errors.Wrap(err, "Failed to register metric")
		}
	}

	return newRecorder, nil
}

func (r *Recorder) RecordUpload(result string, countedBytes uint64) {
	r.uploadsTotal.With(prometheus.Labels{"result": result}).Inc()
	r.countedBytesTotal.Add(float64(countedBytes))
}

func (r *Recorder) RecordDownload(result string, streamedBytes int64) {
	r.downloadsTotal.With(prometheus.Labels{"result": result}).Inc()
	if streamedBytes > 0 {
		r.streamedBytesTotal.Add(float64(streamedBytes))
	}
}

// Handler serves the registry in the prometheus exposition format
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}
