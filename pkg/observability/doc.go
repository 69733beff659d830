/*
Package observability turns session lifecycle hooks into logs and Prometheus
metrics.

Hooks are plain domain.LifecycleHooks values, so several observers can be
combined with Compose and handed to the editor as one.
*/
package observability
