package leader_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/k3s"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/tools/clientcmd"

	"github.com/jensholdgaard/hypebid-bot/internal/config"
	"github.com/jensholdgaard/hypebid-bot/internal/leader"
)

// TestLeaderElection_K3s runs the election against a real API server and
// checks the Lease records this replica as holder. Skipped in short mode.
func TestLeaderElection_K3s(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping k3s integration test in short mode")
	}
	t.Setenv("POD_NAME", "hypebidbot-0")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	ctr, err := k3s.Run(ctx, "rancher/k3s:v1.31.6-k3s1")
	testcontainers.CleanupContainer(t, ctr)
	if err != nil {
		t.Fatalf("starting k3s container: %v", err)
	}

	kubeConfigYaml, err := ctr.GetKubeConfig(ctx)
	if err != nil {
		t.Fatalf("getting kubeconfig: %v", err)
	}
	restCfg, err := clientcmd.RESTConfigFromKubeConfig(kubeConfigYaml)
	if err != nil {
		t.Fatalf("building rest config: %v", err)
	}
	clientset, err := kubernetes.NewForConfig(restCfg)
	if err != nil {
		t.Fatalf("creating kubernetes client: %v", err)
	}

	origFactory := leader.ClientFactory
	leader.ClientFactory = func() (kubernetes.Interface, error) {
		return clientset, nil
	}
	t.Cleanup(func() { leader.ClientFactory = origFactory })

	cfg := config.LeaderElectionConfig{
		Enabled:        true,
		LeaseName:      "hypebidbot-test-leader",
		LeaseNamespace: "default",
		LeaseDuration:  5 * time.Second,
		RenewDeadline:  3 * time.Second,
		RetryPeriod:    time.Second,
	}

	leading := make(chan struct{})
	stopped := make(chan struct{})
	leaderCtx, leaderCancel := context.WithCancel(ctx)
	errCh := make(chan error, 1)
	go func() {
		errCh <- leader.Run(leaderCtx, cfg, slog.Default(),
			func(ctx context.Context) {
				close(leading)
				<-ctx.Done()
			},
			func() { close(stopped) },
		)
	}()

	select {
	case <-leading:
	case <-time.After(30 * time.Second):
		t.Fatal("timed out waiting for leader election")
	}

	lease, err := clientset.CoordinationV1().Leases(cfg.LeaseNamespace).Get(ctx, cfg.LeaseName, metav1.GetOptions{})
	if err != nil {
		t.Fatalf("getting lease: %v", err)
	}
	if lease.Spec.HolderIdentity == nil || *lease.Spec.HolderIdentity != "hypebidbot-0" {
		t.Errorf("lease holder = %v, want hypebidbot-0", lease.Spec.HolderIdentity)
	}

	leaderCancel()

	select {
	case runErr := <-errCh:
		if runErr != nil {
			t.Fatalf("leader.Run() error = %v", runErr)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("timed out waiting for leader.Run to return")
	}
	select {
	case <-stopped:
	default:
		t.Error("onStoppedLeading was not called")
	}
}
