// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Authy Contributors

//go:build integration

package postgres_test

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/authy/authy/internal/account"
)

func mustUser(name, email, password string) *account.User {
	u, err := account.NewUser(name, email, password)
	Expect(err).NotTo(HaveOccurred())
	return u
}

var _ = Describe("Store", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
		truncateAll(ctx)
	})

	Describe("users", func() {
		It("inserts and finds a user", func() {
			u := mustUser("Ada", "ada@example.com", "hunter22")

			created, err := env.Store.InsertUser(ctx, u.Name, u.Email, u.Password)
			Expect(err).NotTo(HaveOccurred())
			Expect(created.Name.String()).To(Equal("Ada"))

			got, err := env.Store.FindUserByEmail(ctx, u.Email)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Password.String()).To(Equal("hunter22"))
		})

		It("rejects a duplicate email as a conflict", func() {
			u := mustUser("Ada", "ada@example.com", "hunter22")
			_, err := env.Store.InsertUser(ctx, u.Name, u.Email, u.Password)
			Expect(err).NotTo(HaveOccurred())

			_, err = env.Store.InsertUser(ctx, u.Name, u.Email, u.Password)
			Expect(err).To(MatchError(account.ErrConflict))
		})

		It("treats emails differing in case as distinct", func() {
			lower := mustUser("Ada", "ada@example.com", "hunter22")
			upper := mustUser("Ada", "ADA@example.com", "hunter22")

			_, err := env.Store.InsertUser(ctx, lower.Name, lower.Email, lower.Password)
			Expect(err).NotTo(HaveOccurred())
			_, err = env.Store.InsertUser(ctx, upper.Name, upper.Email, upper.Password)
			Expect(err).NotTo(HaveOccurred())
		})

		It("reports an unknown email as not found", func() {
			email, err := account.NewEmail("nobody@example.com")
			Expect(err).NotTo(HaveOccurred())

			_, err = env.Store.FindUserByEmail(ctx, email)
			Expect(err).To(MatchError(account.ErrNotFound))
		})
	})

	Describe("ReplaceUserFields", func() {
		var u *account.User

		BeforeEach(func() {
			u = mustUser("Ada", "ada@example.com", "hunter22")
			_, err := env.Store.InsertUser(ctx, u.Name, u.Email, u.Password)
			Expect(err).NotTo(HaveOccurred())
		})

		It("keeps the password when only the name changes", func() {
			name, err := account.NewName("Ada L.")
			Expect(err).NotTo(HaveOccurred())

			got, err := env.Store.ReplaceUserFields(ctx, u.Email, &name, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Name.String()).To(Equal("Ada L."))
			Expect(got.Password.String()).To(Equal("hunter22"))
		})

		It("leaves the row unchanged when nothing is supplied", func() {
			got, err := env.Store.ReplaceUserFields(ctx, u.Email, nil, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Name.String()).To(Equal("Ada"))
			Expect(got.Password.String()).To(Equal("hunter22"))
		})

		It("reports a missing row as not found", func() {
			email, err := account.NewEmail("nobody@example.com")
			Expect(err).NotTo(HaveOccurred())

			_, err = env.Store.ReplaceUserFields(ctx, email, nil, nil)
			Expect(err).To(MatchError(account.ErrNotFound))
		})

		It("never loses a field under concurrent single-field updates", func() {
			var wg sync.WaitGroup
			for i := range 20 {
				wg.Add(2)
				go func() {
					defer wg.Done()
					defer GinkgoRecover()
					name, err := account.NewName(fmt.Sprintf("name-%d", i))
					Expect(err).NotTo(HaveOccurred())
					_, err = env.Store.ReplaceUserFields(ctx, u.Email, &name, nil)
					Expect(err).NotTo(HaveOccurred())
				}()
				go func() {
					defer wg.Done()
					defer GinkgoRecover()
					password, err := account.NewPassword(fmt.Sprintf("secret-%d", i))
					Expect(err).NotTo(HaveOccurred())
					_, err = env.Store.ReplaceUserFields(ctx, u.Email, nil, &password)
					Expect(err).NotTo(HaveOccurred())
				}()
			}
			wg.Wait()

			got, err := env.Store.FindUserByEmail(ctx, u.Email)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Name.String()).To(HavePrefix("name-"))
			Expect(got.Password.String()).To(HavePrefix("secret-"))
		})
	})

	Describe("API keys", func() {
		It("transitions existence from true to false on revocation", func() {
			key := account.APIKeyFromBytes(bytes.Repeat([]byte{0x07}, account.APIKeyBytes))

			_, err := env.Store.InsertAPIKey(ctx, key)
			Expect(err).NotTo(HaveOccurred())

			exists, err := env.Store.APIKeyExists(ctx, key)
			Expect(err).NotTo(HaveOccurred())
			Expect(exists).To(BeTrue())

			status, err := env.Store.DeleteAPIKey(ctx, key)
			Expect(err).NotTo(HaveOccurred())
			Expect(status).To(Equal(account.Revoked))

			exists, err = env.Store.APIKeyExists(ctx, key)
			Expect(err).NotTo(HaveOccurred())
			Expect(exists).To(BeFalse())

			status, err = env.Store.DeleteAPIKey(ctx, key)
			Expect(err).NotTo(HaveOccurred())
			Expect(status).To(Equal(account.RevocationNotFound))
		})
	})

	It("answers pings", func() {
		Expect(env.Store.Ping(ctx)).To(Succeed())
	})
})
