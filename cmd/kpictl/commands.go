package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/EPITECHPAR-MSC2027/Badgeur-sub002/internal/adapters/grpc/kpiv1"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

type dialFunc func(addr string) (*grpc.ClientConn, error)

func dialInsecure(addr string) (*grpc.ClientConn, error) {
	return grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
}

type options struct {
	addr    string
	timeout time.Duration
}

func newRootCmd(out io.Writer, dial dialFunc) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "kpictl",
		Short:         "Query badge KPIs from the KPI gRPC service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.addr, "addr", "localhost:50051", "KPI service address")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "request timeout")

	root.AddCommand(
		&cobra.Command{
			Use:   "kpi <user-id>",
			Short: "Print the persisted 14/28-day KPI, computing it on first access",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return call(cmd.Context(), out, dial, opts, func(ctx context.Context, c kpiv1.KPIServiceClient) (*structpb.Struct, error) {
					return c.GetUserKPI(ctx, args[0])
				})
			},
		},
		&cobra.Command{
			Use:   "report <user-id>",
			Short: "Print the KPI together with 7-day metrics and the presence rate",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return call(cmd.Context(), out, dial, opts, func(ctx context.Context, c kpiv1.KPIServiceClient) (*structpb.Struct, error) {
					return c.GetUserKPIReport(ctx, args[0])
				})
			},
		},
	)

	return root
}

func call(ctx context.Context, out io.Writer, dial dialFunc, opts *options, fn func(context.Context, kpiv1.KPIServiceClient) (*structpb.Struct, error)) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, opts.timeout)
	defer cancel()

	conn, err := dial(opts.addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", opts.addr, err)
	}
	defer conn.Close()

	resp, err := fn(ctx, kpiv1.NewKPIServiceClient(conn))
	if err != nil {
		return err
	}

	b, err := protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(resp)
	if err != nil {
		return fmt.Errorf("encode response: %w", err)
	}
	_, err = fmt.Fprintln(out, string(b))
	return err
}
