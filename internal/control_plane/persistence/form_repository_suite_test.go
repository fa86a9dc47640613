package persistence_test

import (
	"context"

	"formfield-server/internal/control_plane/domain"
	"formfield-server/internal/control_plane/persistence"
	"formfield-server/internal/control_plane/usecases"
	"formfield-server/internal/infra/sql"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("FormRepository", func() {
	var (
		repo *persistence.SimpleFormRepository
		ctx  context.Context
	)

	BeforeEach(func() {
		orm, err := sql.NewMemoryORM()
		Expect(err).NotTo(HaveOccurred())
		repo, err = persistence.NewFormRepository(orm)
		Expect(err).NotTo(HaveOccurred())
		ctx = context.Background()
	})

	Context("CreateForm and GetForm", func() {
		It("round-trips a form", func() {
			form, err := domain.NewFormBuilder().
				WithTitle("newsletter signup").
				WithOwner("editor-1").
				Build()
			Expect(err).NotTo(HaveOccurred())

			Expect(repo.CreateForm(ctx, form)).To(Succeed())

			stored, err := repo.GetForm(ctx, form.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Title).To(Equal("newsletter signup"))
			Expect(stored.OwnerID).To(Equal("editor-1"))
		})

		It("reports missing forms", func() {
			_, err := repo.GetForm(ctx, domain.ID("missing"))
			Expect(err).To(MatchError(usecases.ErrFormNotFound))
		})
	})

	Context("ParentExists", func() {
		It("answers existence without loading the record", func() {
			form, err := domain.NewFormBuilder().WithTitle("survey").Build()
			Expect(err).NotTo(HaveOccurred())
			Expect(repo.CreateForm(ctx, form)).To(Succeed())

			exists, err := repo.ParentExists(ctx, form.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(exists).To(BeTrue())

			exists, err = repo.ParentExists(ctx, domain.ID("missing"))
			Expect(err).NotTo(HaveOccurred())
			Expect(exists).To(BeFalse())
		})
	})

	Context("AllForms", func() {
		It("lists every stored form", func() {
			for _, title := range []string{"one", "two", "three"} {
				form, err := domain.NewFormBuilder().WithTitle(title).Build()
				Expect(err).NotTo(HaveOccurred())
				Expect(repo.CreateForm(ctx, form)).To(Succeed())
			}

			forms, err := repo.AllForms(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(forms).To(HaveLen(3))
		})
	})
})
