package storage_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Ujjwols/tender-internproject/internal/storage"
)

func TestLocalStore(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "LocalStore Suite")
}

var _ = Describe("LocalStore", func() {
	var (
		store *storage.LocalStore
		dir   string
		ctx   context.Context
	)

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		var err error
		store, err = storage.NewLocalStore(dir, logger)
		Expect(err).ToNot(HaveOccurred())
		ctx = context.Background()
	})

	Describe("Save", func() {
		It("should write the file and report its metadata", func() {
			info, err := store.Save(ctx, bytes.NewReader([]byte("letter body")), "letter.pdf", "application/pdf")

			Expect(err).ToNot(HaveOccurred())
			Expect(info.OriginalName).To(Equal("letter.pdf"))
			Expect(info.MimeType).To(Equal("application/pdf"))
			Expect(info.Size).To(Equal(int64(len("letter body"))))

			data, err := os.ReadFile(filepath.Join(dir, info.StoredName))
			Expect(err).ToNot(HaveOccurred())
			Expect(string(data)).To(Equal("letter body"))
		})

		It("should keep the extension but not the original name", func() {
			info, err := store.Save(ctx, strings.NewReader("x"), "letter.pdf", "application/pdf")

			Expect(err).ToNot(HaveOccurred())
			Expect(info.StoredName).To(HaveSuffix(".pdf"))
			Expect(info.StoredName).ToNot(ContainSubstring("letter"))
		})

		It("should not collide when the same name is saved twice", func() {
			first, err := store.Save(ctx, strings.NewReader("one"), "letter.pdf", "application/pdf")
			Expect(err).ToNot(HaveOccurred())

			second, err := store.Save(ctx, strings.NewReader("two"), "letter.pdf", "application/pdf")
			Expect(err).ToNot(HaveOccurred())

			Expect(second.StoredName).ToNot(Equal(first.StoredName))
		})
	})

	Describe("Open", func() {
		It("should stream back the stored content", func() {
			info, err := store.Save(ctx, strings.NewReader("letter body"), "letter.pdf", "application/pdf")
			Expect(err).ToNot(HaveOccurred())

			rc, err := store.Open(ctx, info.StoredName)

			Expect(err).ToNot(HaveOccurred())
			defer rc.Close()
			data, err := io.ReadAll(rc)
			Expect(err).ToNot(HaveOccurred())
			Expect(string(data)).To(Equal("letter body"))
		})

		It("should return the not-found sentinel for an unknown name", func() {
			_, err := store.Open(ctx, "missing.pdf")

			Expect(err).To(Equal(storage.ErrNotFound))
		})

		It("should not let a stored name escape the upload directory", func() {
			outside := filepath.Join(filepath.Dir(dir), "secret.txt")
			Expect(os.WriteFile(outside, []byte("secret"), 0o644)).To(Succeed())
			defer os.Remove(outside)

			_, err := store.Open(ctx, "../secret.txt")

			Expect(err).To(Equal(storage.ErrNotFound))
		})
	})

	Describe("Delete", func() {
		It("should remove the stored file", func() {
			info, err := store.Save(ctx, strings.NewReader("letter body"), "letter.pdf", "application/pdf")
			Expect(err).ToNot(HaveOccurred())

			Expect(store.Delete(ctx, info.StoredName)).To(Succeed())

			_, err = os.Stat(filepath.Join(dir, info.StoredName))
			Expect(os.IsNotExist(err)).To(BeTrue())
		})

		It("should return the not-found sentinel for an unknown name", func() {
			Expect(store.Delete(ctx, "missing.pdf")).To(Equal(storage.ErrNotFound))
		})
	})
})
