/*
Package service implements the entity services and the factory that builds
them.

Each service owns one datastore and exposes Save, FindAll and FindByID;
organizations additionally implement BatchFinder:

	factory := service.NewFactory(storage, service.WithLogger(log))

	orgs, err := factory.Create("organization")
	if err != nil {
	    // ConfigurationError: unknown type or no datastore registered
	}
	found, err := orgs.(service.BatchFinder).FindByIDs(ctx, ids)

Save is an upsert by attempted update: it stamps modified, tries Update, and
only when the datastore answers NotFound stamps created and calls Insert.
Two concurrent first saves of the same id may both reach Insert; backends
that enforce unique ids reject the second one.

Errors are classified with the errors package: PreconditionError for bad
arguments, ConfigurationError from the factory, PersistenceError wrapping
datastore failures, InvariantViolationError when an id matches several
records.

The operations block until the datastore answers. SaveAsync and the other
*Async helpers run them on a goroutine and deliver exactly one Result on a
channel.
*/
package service
