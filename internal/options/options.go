/*
Copyright 2025 The KCP Authors.

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

package options

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/pflag"

	utilerrors "k8s.io/apimachinery/pkg/util/errors"
	"k8s.io/client-go/kubernetes/scheme"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
)

// ClientOptions configure how the API server is reached. Authentication and
// the server address come from the kubeconfig, everything else can be tuned
// on the command line.
type ClientOptions struct {
	// Kubeconfig is an explicit kubeconfig path. If empty, the usual loading
	// rules ($KUBECONFIG, ~/.kube/config, in-cluster) apply.
	Kubeconfig string
	// Context overrides the kubeconfig's current context.
	Context string

	QPS     float32
	Burst   int
	Timeout time.Duration
}

func NewDefaultClientOptions() ClientOptions {
	return ClientOptions{
		QPS:     20,
		Burst:   40,
		Timeout: 30 * time.Second,
	}
}

func (opts *ClientOptions) AddPFlags(flags *pflag.FlagSet) {
	flags.StringVar(&opts.Kubeconfig, "kubeconfig", opts.Kubeconfig, "Path to the kubeconfig file to use")
	flags.StringVar(&opts.Context, "context", opts.Context, "Name of the kubeconfig context to use")
	flags.Float32Var(&opts.QPS, "qps", opts.QPS, "Maximum queries per second to the API server")
	flags.IntVar(&opts.Burst, "burst", opts.Burst, "Maximum burst of queries to the API server")
	flags.DurationVar(&opts.Timeout, "timeout", opts.Timeout, "Timeout for a single request, 0 disables it")
}

func (opts *ClientOptions) Validate() error {
	errs := []error{}

	if opts.QPS <= 0 {
		errs = append(errs, errors.New("--qps must be positive"))
	}

	if opts.Burst < 1 {
		errs = append(errs, errors.New("--burst must be at least 1"))
	} else if float32(opts.Burst) < opts.QPS {
		errs = append(errs, fmt.Errorf("--burst (%d) must not be lower than --qps (%.f)", opts.Burst, opts.QPS))
	}

	if opts.Timeout < 0 {
		errs = append(errs, errors.New("--timeout must not be negative"))
	}

	return utilerrors.NewAggregate(errs)
}

func (opts *ClientOptions) clientConfig() clientcmd.ClientConfig {
	loadingRules := clientcmd.NewDefaultClientConfigLoadingRules()
	loadingRules.ExplicitPath = opts.Kubeconfig

	overrides := &clientcmd.ConfigOverrides{CurrentContext: opts.Context}

	return clientcmd.NewNonInteractiveDeferredLoadingClientConfig(loadingRules, overrides)
}

// RESTConfig loads the kubeconfig and applies the rate limits and timeout.
func (opts *ClientOptions) RESTConfig(userAgent string) (*rest.Config, error) {
	config, err := opts.clientConfig().ClientConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load kubeconfig: %w", err)
	}

	config.QPS = opts.QPS
	config.Burst = opts.Burst
	config.Timeout = opts.Timeout
	config.UserAgent = userAgent

	return config, nil
}

// Namespace returns the namespace of the selected kubeconfig context, or
// "default" if it does not set one.
func (opts *ClientOptions) Namespace() (string, error) {
	namespace, _, err := opts.clientConfig().Namespace()
	if err != nil {
		return "", fmt.Errorf("failed to determine namespace: %w", err)
	}

	return namespace, nil
}

// NewRESTClient creates a transport handle that is not bound to a group
// version. Requests build their own absolute paths and exchange JSON.
func NewRESTClient(config *rest.Config) (*rest.RESTClient, error) {
	config = rest.CopyConfig(config)
	config.ContentType = "application/json"
	config.AcceptContentTypes = "application/json"
	config.NegotiatedSerializer = scheme.Codecs.WithoutConversion()

	if config.UserAgent == "" {
		config.UserAgent = rest.DefaultKubernetesUserAgent()
	}

	client, err := rest.UnversionedRESTClientFor(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create REST client: %w", err)
	}

	return client, nil
}
