// Package kde implements the space-efficient hashing-based estimator (HBE)
// of the Laplacian kernel density.
//
// The estimator keeps L independent repetitions. Every repetition samples
// each dataset point with probability p = min(1, L/n), so a table holds ~L
// points instead of n, and buckets the sample by an LSH code drawn for the
// kernel at the doubled bandwidth 2h. A query hashes itself in every
// repetition, picks one random point of its bucket and reweights it:
//
//	Z_j = k(q, x, 2h) * |bucket_j| / (n*p)
//
// Since a point collides with the query with probability k(q, x, 2h) and
// k(q, x, 2h)^2 = k(q, x, h), every Z_j is an unbiased estimate of
//
//	(1/n) * sum_i exp(-|q - x_i|_1 / h)
//
// and the mean over L repetitions reduces the variance.
//
// Collision probability matches the kernel only inside the hashing domain,
// see DomainFit and DomainUnit.
//
// The estimator is immutable after New returns and safe for concurrent use.
package kde
