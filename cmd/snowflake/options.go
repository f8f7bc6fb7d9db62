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
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/spf13/pflag"

	"k8c.io/snowflake/internal/log"
	"k8c.io/snowflake/internal/options"

	"k8s.io/apimachinery/pkg/labels"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"
	"k8s.io/apimachinery/pkg/util/sets"
)

const (
	OutputYAML     = "yaml"
	OutputJSON     = "json"
	OutputTemplate = "template"
)

var availableOutputs = sets.New(OutputYAML, OutputJSON, OutputTemplate)

type Options struct {
	ClientOptions options.ClientOptions
	LogOptions    log.Options

	// Namespace to read from. If empty, the kubeconfig context's namespace
	// is used.
	Namespace     string
	AllNamespaces bool

	// Selector restricts listings to objects with matching labels.
	Selector       string
	parsedSelector labels.Selector

	Output   string
	Template string
	template *template.Template

	// ShowSecrets prints secret values instead of redacting them.
	ShowSecrets bool

	Version bool

	// Kind and Name are the positional arguments.
	Kind string
	Name string
}

func NewOptions() *Options {
	logOpts := log.NewDefaultOptions()
	logOpts.Format = log.FormatConsole

	return &Options{
		ClientOptions:  options.NewDefaultClientOptions(),
		LogOptions:     logOpts,
		Output:         OutputYAML,
		parsedSelector: labels.Everything(),
	}
}

func (o *Options) AddFlags(flags *pflag.FlagSet) {
	o.LogOptions.AddPFlags(flags)
	o.ClientOptions.AddPFlags(flags)

	flags.StringVarP(&o.Namespace, "namespace", "n", o.Namespace, "Namespace to read from (defaults to the kubeconfig context's namespace)")
	flags.BoolVarP(&o.AllNamespaces, "all-namespaces", "A", o.AllNamespaces, "List objects across all namespaces")
	flags.StringVarP(&o.Selector, "selector", "l", o.Selector, "Label selector to filter listed objects")
	flags.StringVarP(&o.Output, "output", "o", o.Output, fmt.Sprintf("Output format, one of %v", sets.List(availableOutputs)))
	flags.StringVar(&o.Template, "template", o.Template, "Go template to render with -o template (sprig functions are available)")
	flags.BoolVar(&o.ShowSecrets, "show-secrets", o.ShowSecrets, "Print secret values instead of redacting them")
	flags.BoolVar(&o.Version, "version", o.Version, "Print the version and exit")
}

// Validate checks the flags and positional arguments.
func (o *Options) Validate(args []string) error {
	if o.Version {
		return nil
	}

	errs := []error{}

	if err := o.LogOptions.Validate(); err != nil {
		errs = append(errs, err)
	}

	if err := o.ClientOptions.Validate(); err != nil {
		errs = append(errs, err)
	}

	switch len(args) {
	case 1, 2:
		if strings.TrimSpace(args[0]) == "" {
			errs = append(errs, errors.New("KIND must not be empty"))
		}
	default:
		errs = append(errs, fmt.Errorf("expected KIND and an optional NAME, got %d arguments", len(args)))
	}

	if o.AllNamespaces && o.Namespace != "" {
		errs = append(errs, errors.New("--namespace and --all-namespaces are mutually exclusive"))
	}

	if o.AllNamespaces && len(args) == 2 {
		errs = append(errs, errors.New("--all-namespaces cannot be combined with a NAME"))
	}

	if o.Selector != "" {
		if len(args) == 2 {
			errs = append(errs, errors.New("--selector cannot be combined with a NAME"))
		}

		if _, err := labels.Parse(o.Selector); err != nil {
			errs = append(errs, fmt.Errorf("invalid --selector %q: %w", o.Selector, err))
		}
	}

	if !availableOutputs.Has(o.Output) {
		errs = append(errs, fmt.Errorf("invalid --output %q, must be one of %v", o.Output, sets.List(availableOutputs)))
	}

	switch {
	case o.Output == OutputTemplate && o.Template == "":
		errs = append(errs, errors.New("--template is required for -o template"))
	case o.Output != OutputTemplate && o.Template != "":
		errs = append(errs, errors.New("--template can only be used with -o template"))
	case o.Template != "":
		if _, err := parseTemplate(o.Template); err != nil {
			errs = append(errs, fmt.Errorf("invalid --template: %w", err))
		}
	}

	return utilerrors.NewAggregate(errs)
}

// Complete fills in defaults that depend on the environment. It must be
// called after Validate.
func (o *Options) Complete(args []string) error {
	errs := []error{}

	o.Kind = args[0]
	if len(args) > 1 {
		o.Name = args[1]
	}

	if o.Selector != "" {
		selector, err := labels.Parse(o.Selector)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid --selector %q: %w", o.Selector, err))
		}
		o.parsedSelector = selector
	}

	if o.Template != "" {
		tpl, err := parseTemplate(o.Template)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid --template: %w", err))
		}
		o.template = tpl
	}

	if o.Namespace == "" && !o.AllNamespaces {
		namespace, err := o.ClientOptions.Namespace()
		if err != nil {
			errs = append(errs, err)
		}
		o.Namespace = namespace
	}

	return utilerrors.NewAggregate(errs)
}

func parseTemplate(text string) (*template.Template, error) {
	return template.New("output").Funcs(sprig.TxtFuncMap()).Parse(text)
}
