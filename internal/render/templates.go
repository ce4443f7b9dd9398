package render

// templateSources holds every file template by name. The generated project
// is a Python application built on the pipekit orchestration SDK; pipegen
// only writes these files, it never executes them.
var templateSources = map[string]string{
	"agent.py": `"""{{.Name}} agent.

Generated by pipegen {{.GeneratorVersion}} on {{.Timestamp}}.
"""

from pipekit import Agent, activity


class {{.Name}}(Agent):
    """Agent: {{.Name}}."""

    async def run(self, input_data: dict) -> dict:
        # TODO: implement agent logic
        return input_data


@activity
async def {{.SnakeName}}_activity(payload: dict) -> dict:
    """Activity wrapper used by generated pipelines."""
    return await {{.Name}}().run(payload)
`,

	"workflow.py": `"""{{.Name}} workflow.

Generated by pipegen {{.GeneratorVersion}} on {{.Timestamp}}.
"""

from pipekit import Workflow, step


class {{.Name}}(Workflow):
    """Workflow: {{.Name}}."""

    @step
    async def execute(self, input_data: dict) -> dict:
        # TODO: implement workflow steps
        return input_data


@step
async def {{.SnakeName}}_activity(payload: dict) -> dict:
    """Activity wrapper used by generated pipelines."""
    return await {{.Name}}().execute(payload)
`,

	"function.py": `"""{{.SnakeName}} function.

Generated by pipegen {{.GeneratorVersion}} on {{.Timestamp}}.
"""

from pipekit import activity


@activity
async def {{.SnakeName}}(payload: dict) -> dict:
    """Function: {{.SnakeName}}."""
    # TODO: implement function logic
    return payload


{{.SnakeName}}_activity = {{.SnakeName}}
`,

	"test_agent.py": `"""Tests for {{.Name}}."""

import pytest

from {{.ProjectName}}.agents.{{.SnakeName}} import {{.Name}}, {{.SnakeName}}_activity


@pytest.mark.asyncio
async def test_{{.SnakeName}}_run_returns_dict():
    result = await {{.Name}}().run({"input": "example"})
    assert isinstance(result, dict)


@pytest.mark.asyncio
async def test_{{.SnakeName}}_activity_wraps_run():
    result = await {{.SnakeName}}_activity({"input": "example"})
    assert isinstance(result, dict)
`,

	"test_workflow.py": `"""Tests for {{.Name}}."""

import pytest

from {{.ProjectName}}.workflows.{{.SnakeName}} import {{.Name}}, {{.SnakeName}}_activity


@pytest.mark.asyncio
async def test_{{.SnakeName}}_execute_returns_dict():
    result = await {{.Name}}().execute({"input": "example"})
    assert isinstance(result, dict)


@pytest.mark.asyncio
async def test_{{.SnakeName}}_activity_wraps_execute():
    result = await {{.SnakeName}}_activity({"input": "example"})
    assert isinstance(result, dict)
`,

	"test_function.py": `"""Tests for {{.SnakeName}}."""

import pytest

from {{.ProjectName}}.functions.{{.SnakeName}} import {{.SnakeName}}


@pytest.mark.asyncio
async def test_{{.SnakeName}}_returns_dict():
    result = await {{.SnakeName}}({"input": "example"})
    assert isinstance(result, dict)
`,

	"test_pipeline.py": `"""Tests for the generated {{.Name}} pipeline."""

from {{.ProjectName}}.workflows.{{.SnakeName}} import {{.Name}}


def test_{{.SnakeName}}_is_registrable():
    workflow = {{.Name}}()
    assert callable(workflow.execute)
`,

	"run_client.py": `"""Schedule {{.Name}} from the command line.

Generated by pipegen {{.GeneratorVersion}} on {{.Timestamp}}.
"""

import asyncio

from pipekit import ServiceClient

from {{.ProjectName}}.{{.KindDir}}.{{.SnakeName}} import {{.Name}}


async def main() -> None:
    client = ServiceClient(task_queue="{{.TaskQueue}}")
    result = await client.schedule({{.Name}}, {"input": "example"})
    print(result)


if __name__ == "__main__":
    asyncio.run(main())
`,

	"tool_server.py": `"""{{.Name}} tool server.

Generated by pipegen {{.GeneratorVersion}} on {{.Timestamp}}.
Exposes project tools over MCP; register more with @server.tool.
"""

from fastmcp import FastMCP

server = FastMCP("{{.Name}}")


@server.tool
async def echo(text: str) -> str:
    """Example tool; replace with project-specific tools."""
    return text


if __name__ == "__main__":
    server.run()
`,

	"tools.yaml": `# Tool server registry ({{.ProjectName}}).
servers:
  - name: {{.SnakeName}}
    module: src/{{.ProjectName}}/tools/{{.SnakeName}}_server.py
`,

	"service.py": `"""Service registration for {{.ProjectName}}.

Generated by pipegen {{.GeneratorVersion}}. Resource imports and the
registration lists below are maintained by 'pipegen g'; keep the section
markers in place.
"""

from pipekit import ServiceClient

# pipegen:imports:agents
# pipegen:imports:workflows
# pipegen:imports:functions


async def main() -> None:
    client = ServiceClient(task_queue="{{.TaskQueue}}")
    await client.start_service(
        agents=[],
        workflows=[],
        functions=[],
    )


if __name__ == "__main__":
    import asyncio

    asyncio.run(main())
`,

	"client.py": `"""Client entry point for {{.ProjectName}}."""

import asyncio
import sys

from pipekit import ServiceClient


async def main() -> None:
    client = ServiceClient(task_queue="{{.TaskQueue}}")
    workflow = sys.argv[1] if len(sys.argv) > 1 else None
    if workflow is None:
        print("usage: python client/client.py <WorkflowName>")
        raise SystemExit(2)
    result = await client.run_workflow(workflow, {})
    print(result)


if __name__ == "__main__":
    asyncio.run(main())
`,

	"settings.py": `"""Runtime settings for {{.ProjectName}}.

Reads configuration from the path in the {{.EnvPrefix}}_CONFIG environment
variable, defaulting to config/settings.yaml.
"""

import os
from pathlib import Path

CONFIG_PATH = Path(os.environ.get("{{.EnvPrefix}}_CONFIG", "config/settings.yaml"))

settings = {
    "project": "{{.ProjectName}}",
    "task_queue": "{{.TaskQueue}}",
    "config_path": str(CONFIG_PATH),
}
`,

	"pyproject.toml": `[project]
name = "{{.ProjectName}}"
version = "{{.Version}}"
description = "{{.Description}}"
requires-python = ">=3.11"
dependencies = [
    "pipekit>=0.5",
]

[tool.pipegen]
generator_version = "{{.GeneratorVersion}}"
`,

	"Makefile": `.PHONY: setup test run

setup:
	pip install -e .

test:
	pytest tests/

run:
	python server/service.py
`,

	"pipegen.hcl": `# Project configuration for {{.ProjectName}}.
# Managed by pipegen {{.GeneratorVersion}}; edit through 'pipegen migrate'
# where possible.

project "{{.ProjectName}}" {
  version    = "{{.Version}}"
  task_queue = "{{.TaskQueue}}"

  settings {
    log_level  = "info"
    log_format = "text"
  }
}
`,

	"llm_config_direct.yaml": `# LLM router configuration ({{.ProjectName}}): direct backend.
router:
  backend: direct
  default_model: {{.Model}}
  providers:
    - name: primary
      kind: openai_compatible
      base_url: ${LLM_BASE_URL}
      api_key: ${LLM_API_KEY}
  retries:
    max_attempts: 3
    backoff: exponential
`,

	"llm_config_kong.yaml": `# LLM router configuration ({{.ProjectName}}): kong gateway backend.
router:
  backend: kong
  default_model: {{.Model}}
  gateway:
    admin_url: ${KONG_ADMIN_URL}
    route: llm
    consumer: {{.ProjectName}}
  retries:
    max_attempts: 3
    backoff: exponential
`,

	"prompt.md": `---
name: {{.Name}}
version: {{.PromptVersion}}
generated_by: pipegen {{.GeneratorVersion}}
---

# {{.Name}}

Describe the task for the model here.
`,
}
