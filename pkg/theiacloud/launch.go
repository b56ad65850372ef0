package theiacloud

import (
	"context"

	"github.com/avast/retry-go/v4"
)

// Ping reports whether the service serves req.AppID. Failures are not retried.
func (c *Client) Ping(ctx context.Context, req PingRequest, opts ...CallOption) (bool, error) {
	return execute[bool](ctx, c, req, opts, sendGet(servicePath("/service", req.AppID)))
}

// Launch starts the session described by req and navigates to its URL.
//
// A failed attempt, including one the service reports as unsuccessful, is repeated
// while retries remain, so at most retries+1 attempts are made. Attempts follow each
// other without delay. The error of the last attempt is returned. A failure to
// navigate is returned without retrying.
func (c *Client) Launch(ctx context.Context, req LaunchRequest, retries int, opts ...CallOption) error {
	if retries < 0 {
		retries = 0
	}
	attempts := uint(retries) + 1
	return retry.Do(
		func() error {
			return c.launchOnce(ctx, req, opts)
		},
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(0),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			if n+1 < attempts {
				c.logger.Infof("retrying session launch, %d retries left", attempts-n-1)
			}
		}),
	)
}

func (c *Client) launchOnce(ctx context.Context, req LaunchRequest, opts []CallOption) error {
	rsp, err := execute[SessionLaunchResponse](ctx, c, req, opts, sendTagged(post, "/service", LaunchRequestKind, req))
	if err != nil {
		return err
	}
	if !rsp.Success {
		c.logger.Errorf("%s", rsp.Error)
		err := ErrLaunchFailed.Msg("Could not launch session: " + rsp.Error)
		c.logger.Errorf("%s", err.Error())
		return err
	}
	target := "https://" + rsp.URL
	c.logger.Infof("Redirect to: %s", target)
	if err := c.navigator.Navigate(ctx, target); err != nil {
		c.logger.Errorf("%s", err.Error())
		return retry.Unrecoverable(err)
	}
	return nil
}
