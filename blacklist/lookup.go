package blacklist

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// LookupOptions tunes a Lookup
type LookupOptions struct {
	// WithProfile enables the nickname/avatar call
	WithProfile bool

	// AvatarURLTemplate builds the fallback avatar url (see FallbackProfile)
	AvatarURLTemplate string

	// OnProfileError, if set, is called with the error of a failed nickname call. That error never
	// fails the lookup
	OnProfileError func(err error)
}

// Lookup runs the blacklist call and, if enabled, the nickname call concurrently. Each call fills
// its own slot and neither waits on nor cancels the other. The report is built once both are
// done: a blacklist failure fails the lookup while a nickname failure falls back to
// FallbackProfile
func Lookup(ctx context.Context, f Fetcher, req LookupRequest, opts LookupOptions) (r Report, err error) {
	var (
		body       []byte
		blErr      error
		profile    Profile
		profileErr error
	)

	// The group has no shared context: each call keeps its error in its own slot so a failure
	// never cancels the other call, and Wait only joins them
	var g errgroup.Group

	g.Go(func() error {
		body, blErr = f.FetchBlacklist(ctx, req)
		return nil
	})

	if opts.WithProfile {
		g.Go(func() error {
			profile, profileErr = f.FetchProfile(ctx, req.TargetID)
			return nil
		})
	}

	if err = g.Wait(); err != nil {
		return r, err
	}

	if blErr != nil {
		return r, blErr
	}

	r, err = Normalize(body)
	if err != nil {
		return r, err
	}

	if !opts.WithProfile {
		return r, nil
	}

	if profileErr != nil {
		if opts.OnProfileError != nil {
			opts.OnProfileError(profileErr)
		}
		profile = Profile{}
	}

	return r.WithProfile(profile, req.TargetID, opts.AvatarURLTemplate), nil
}
