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

package main

import (
	"context"
	"fmt"
	"io"
	golog "log"
	"os"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"k8c.io/snowflake/internal/cache"
	snowflakelog "k8c.io/snowflake/internal/log"
	"k8c.io/snowflake/internal/options"
	"k8c.io/snowflake/internal/version"
	admissionregistrationv1 "k8c.io/snowflake/sdk/apis/admissionregistration/v1"
	corev1 "k8c.io/snowflake/sdk/apis/core/v1"
	"k8c.io/snowflake/sdk/client"

	"k8s.io/apimachinery/pkg/labels"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"
	"k8s.io/client-go/rest"
)

const pageSize = 500

func main() {
	ctx := context.Background()

	opts := NewOptions()
	opts.AddFlags(pflag.CommandLine)

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] KIND [NAME]\n\n", os.Args[0])
		pflag.PrintDefaults()
	}
	pflag.Parse()

	if opts.Version {
		fmt.Println(version.NewAppVersion().String())
		return
	}

	if err := opts.Validate(pflag.Args()); err != nil {
		golog.Fatalf("Invalid command line: %v", err)
	}

	log := snowflakelog.NewFromOptions(opts.LogOptions)

	// client-go logs through klog
	snowflakelog.RedirectKlog(log)

	if err := opts.Complete(pflag.Args()); err != nil {
		log.With(zap.Error(err)).Fatal("Invalid command line")
	}

	sugar := log.Sugar()

	if err := run(ctx, sugar, opts, os.Stdout); err != nil {
		sugar.Fatalw("Failed to read objects", zap.Error(err))
	}
}

func newRegistry() (*client.Registry, error) {
	registry := client.NewRegistry()

	for _, add := range []func(*client.Registry) error{
		corev1.AddToRegistry,
		admissionregistrationv1.AddToRegistry,
	} {
		if err := add(registry); err != nil {
			return nil, err
		}
	}

	return registry, nil
}

func run(ctx context.Context, log *zap.SugaredLogger, opts *Options, out io.Writer) error {
	registry, err := newRegistry()
	if err != nil {
		return fmt.Errorf("failed to build registry: %w", err)
	}

	kind, ok := registry.ResolveKind(opts.Kind)
	if !ok {
		return fmt.Errorf("unknown kind %q, must be one of %v", opts.Kind, registry.Kinds())
	}

	reg, _ := registry.Lookup(kind)

	v := version.NewAppVersion()
	log.Debugw("Resolved kind", "kind", kind, "resource", reg.Descriptor.String(), "version", v.GitVersion)

	config, err := opts.ClientOptions.RESTConfig(v.UserAgent("snowflake"))
	if err != nil {
		return err
	}

	restClient, err := options.NewRESTClient(config)
	if err != nil {
		return err
	}

	return fetchAndPrint(ctx, log, opts, reg, restClient, out)
}

func fetchAndPrint(ctx context.Context, log *zap.SugaredLogger, opts *Options, reg client.Registration, restClient rest.Interface, out io.Writer) error {
	c := client.New(reg.Kind(), restClient).WithLogger(log)
	if !opts.AllNamespaces {
		c = c.Namespace(opts.Namespace)
	}

	var (
		objects   []client.Resource
		decodeErr error
	)

	if opts.Name != "" {
		obj, err := c.Get(ctx, opts.Name)
		if err != nil {
			return err
		}

		objects = []client.Resource{obj}
	} else {
		var err error

		objects, decodeErr, err = listAll(ctx, c, opts.parsedSelector)
		if err != nil {
			return err
		}

		log.Debugw("Listed objects", "resource", reg.Descriptor.String(), "count", len(objects))
	}

	if !opts.ShowSecrets {
		for i := range objects {
			objects[i] = redact(objects[i])
		}
	}

	doc, err := buildDocument(reg.Descriptor, objects, opts.Name != "")
	if err != nil {
		return fmt.Errorf("failed to prepare output: %w", err)
	}

	if err := render(out, opts.Output, opts.template, doc); err != nil {
		return err
	}

	if decodeErr != nil {
		return fmt.Errorf("some objects could not be decoded: %w", decodeErr)
	}

	return nil
}

// listAll pages through the collection and collects the objects in a store,
// which also orders them by key. Objects that failed to decode are skipped
// and reported through decodeErr.
func listAll(ctx context.Context, c client.Client[client.Resource], selector labels.Selector) (objects []client.Resource, decodeErr error, err error) {
	store := cache.NewStore(c.Kind())

	listOpts := client.ListOptions{Limit: pageSize}
	if selector != nil && !selector.Empty() {
		listOpts.LabelSelector = selector.String()
	}

	var decodeErrs []error

	for {
		page, err := c.List(ctx, listOpts)
		if page == nil {
			return nil, nil, err
		}

		if err != nil {
			decodeErrs = append(decodeErrs, err)
		}

		for _, obj := range page.Items {
			if _, err := store.Upsert(obj); err != nil {
				return nil, nil, err
			}
		}

		if page.Continue == "" {
			break
		}

		listOpts.Continue = page.Continue
	}

	return store.List(), utilerrors.NewAggregate(decodeErrs), nil
}
