package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/javajoker/asset-audit/internal/models"
)

// ApplySeed loads seed data through the Store interface. Franchises whose
// SAP code already exists are treated as already seeded, together with the
// assets and audits that reference them.
func ApplySeed(ctx context.Context, s Store, seed *Seed) error {
	userIDs := make([]uint, len(seed.Users))
	for i, su := range seed.Users {
		if existing, err := s.GetUserByUsername(ctx, su.Username); err == nil {
			userIDs[i] = existing.ID
			continue
		} else if !errors.Is(err, ErrNotFound) {
			return err
		}

		u := models.User{Username: su.Username}
		if err := u.SetPassword(su.Password); err != nil {
			return fmt.Errorf("failed to hash password for %s: %w", su.Username, err)
		}
		created, err := s.CreateUser(ctx, u)
		if err != nil {
			return err
		}
		userIDs[i] = created.ID
	}

	franchiseIDs := make([]uint, len(seed.Franchises))
	fresh := make([]bool, len(seed.Franchises))
	for i, f := range seed.Franchises {
		if existing, err := s.GetFranchiseBySAPCode(ctx, f.SAPCode); err == nil {
			franchiseIDs[i] = existing.ID
			continue
		} else if !errors.Is(err, ErrNotFound) {
			return err
		}

		created, err := s.CreateFranchise(ctx, f)
		if err != nil {
			return err
		}
		franchiseIDs[i] = created.ID
		fresh[i] = true
	}

	for _, sa := range seed.Assets {
		if sa.Franchise < 0 || sa.Franchise >= len(franchiseIDs) {
			return fmt.Errorf("seed asset %s references unknown franchise %d", sa.Asset.SerialNumber, sa.Franchise)
		}
		if !fresh[sa.Franchise] {
			continue
		}
		a := sa.Asset
		a.FranchiseID = franchiseIDs[sa.Franchise]
		if _, err := s.CreateAsset(ctx, a); err != nil {
			return err
		}
	}

	for _, sa := range seed.Audits {
		if sa.Franchise < 0 || sa.Franchise >= len(franchiseIDs) || sa.KAE < 0 || sa.KAE >= len(userIDs) {
			return fmt.Errorf("seed audit references unknown franchise %d or user %d", sa.Franchise, sa.KAE)
		}
		if !fresh[sa.Franchise] {
			continue
		}
		counters := seed.seedCounters(sa.Franchise)
		status := sa.Status
		if status == "" {
			status = models.AuditStatusInProgress
		}
		if _, err := s.CreateAudit(ctx, models.Audit{
			FranchiseID:    franchiseIDs[sa.Franchise],
			KAEID:          userIDs[sa.KAE],
			Status:         status,
			TotalAssets:    counters.Total,
			VerifiedAssets: counters.Verified,
			PendingAssets:  counters.Pending,
			MismatchAssets: counters.Mismatch,
		}); err != nil {
			return err
		}
	}

	return nil
}
